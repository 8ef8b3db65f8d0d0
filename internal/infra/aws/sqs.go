package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"todo-api/pkg/resource"
)

// NewSqsClient creates the SQS client, pointing at app.cloud.aws-endpoint (e.g. LocalStack) when set
func NewSqsClient(config aws.Config) *sqs.Client {
	return sqs.NewFromConfig(config, func(options *sqs.Options) {
		if endpoint := resource.GetString("app.cloud.aws-endpoint"); endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
		}
	})
}
