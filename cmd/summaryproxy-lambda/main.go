// Command summaryproxy-lambda runs the summary function on AWS Lambda behind
// an API Gateway proxy integration.
package main

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/teilomillet/summaryproxy"
	"github.com/teilomillet/summaryproxy/server/lambda"
	"go.uber.org/zap"
)

func main() {
	handler, logger, err := summaryproxy.Setup(context.Background())
	if err != nil {
		panic("Failed to initialize summary function: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting Lambda handler", zap.String("runtime", "aws-lambda"))
	awslambda.Start(lambda.NewHandler(handler))
}
