package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-2")}, nil
}

func TestSQSPublisherSendsAttributes(t *testing.T) {
	client := &fakeSQS{}
	pub := &sqsPublisher{id: "q", queueURL: "https://example.com/queue", client: client, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), NewEvent("notes", ActionCreated, "1", nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["service"]
	if !ok || aws.ToString(attr.StringValue) != "notes" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("service attribute wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"action":"created"`) {
		t.Fatalf("MessageBody missing action: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	pub := &sqsPublisher{id: "q", client: &fakeSQS{err: errors.New("boom")}, log: logger.NopLogger{}}
	if err := pub.Publish(context.Background(), NewEvent("notes", ActionCreated, "1", nil)); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSNSPublisherSendsAttributes(t *testing.T) {
	client := &fakeSNS{}
	pub := &snsPublisher{id: "t", topicARN: "arn:aws:sns:::topic", client: client, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), NewEvent("tasks", ActionDeleted, "9", nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	if attr := client.input.MessageAttributes["action"]; aws.ToString(attr.StringValue) != ActionDeleted {
		t.Fatalf("action attribute wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.Message), `"resource_id":"9"`) {
		t.Fatalf("Message missing resource id: %s", aws.ToString(client.input.Message))
	}
}

func TestSNSPublisherSendError(t *testing.T) {
	pub := &snsPublisher{id: "t", client: &fakeSNS{err: errors.New("boom")}, log: logger.NopLogger{}}
	if err := pub.Publish(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}
