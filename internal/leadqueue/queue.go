// Package leadqueue publishes accepted leads to an SQS queue.
package leadqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/qqenglishbr/lp-qqenglish/internal/leads"
)

// SendMessageAPI is the subset of *sqs.Client used by Queue.
type SendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Queue sends each payload as one SQS message.
type Queue struct {
	client   SendMessageAPI
	queueURL string
}

// New creates a queue destination. It is disabled unless both client and
// queueURL are set.
func New(client SendMessageAPI, queueURL string) *Queue {
	return &Queue{client: client, queueURL: queueURL}
}

func (q *Queue) Name() string { return "sqs" }

func (q *Queue) Enabled() bool { return q != nil && q.client != nil && q.queueURL != "" }

// Send posts the JSON payload with lead_id and source as message attributes.
func (q *Queue) Send(ctx context.Context, payload *leads.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("leadqueue: marshal payload: %w", err)
	}

	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"lead_id": stringAttribute(payload.LeadID),
			"source":  stringAttribute(payload.Source),
		},
	})
	if err != nil {
		return fmt.Errorf("leadqueue: failed to send SQS message: %w", err)
	}
	return nil
}

func stringAttribute(v string) types.MessageAttributeValue {
	if v == "" {
		v = "-"
	}
	return types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
}
