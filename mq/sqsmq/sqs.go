package sqsmq

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/zlnvch/webboard/mq"
)

type SQSMessageQueue struct {
	client   *sqs.Client
	queueURL string
	name     string
}

func NewSQSMessageQueue(ctx context.Context, devMode bool, sqsEndpoint string, queueName string) (*SQSMessageQueue, error) {
	client, err := newSQSClient(ctx, devMode, sqsEndpoint)
	if err != nil {
		return nil, err
	}

	queueURL, err := getQueueURL(ctx, client, queueName)
	if err != nil {
		return nil, fmt.Errorf("resolve queue %q: %w", queueName, err)
	}

	return &SQSMessageQueue{client: client, queueURL: queueURL, name: queueName}, nil
}

func (q *SQSMessageQueue) Name() string {
	return q.name
}

func (q *SQSMessageQueue) Send(ctx context.Context, body string) error {
	return sendMessage(ctx, q, body)
}

func (q *SQSMessageQueue) Receive(ctx context.Context, visibilityTimeout int32) (*mq.Message, error) {
	return receiveMessage(ctx, q, visibilityTimeout)
}

func (q *SQSMessageQueue) Delete(ctx context.Context, msg *mq.Message) error {
	return deleteMessage(ctx, q, msg)
}
