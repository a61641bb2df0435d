// Package awsmq implements the imagevault.Notifier interface over an SQS
// queue and an SNS topic with email subscribers.
package awsmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/imagevault/imagevault/pkg/imagevault"
)

// subscriptionProtocol is the SNS delivery protocol for subscribers.
const subscriptionProtocol = "email"

// Config options for the SQS+SNS notifier
type Config struct {
	Region          string // AWS region
	QueueURL        string // SQS queue URL
	TopicARN        string // SNS topic ARN
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint (LocalStack etc.)
	DelaySeconds    int32  // Delivery delay applied to enqueued messages
}

// Notifier implements imagevault.Notifier using SQS and SNS
type Notifier struct {
	sqs    *sqs.Client
	sns    *sns.Client
	config Config
}

// New creates a new SQS+SNS notifier
func New(config Config) (*Notifier, error) {
	if config.QueueURL == "" {
		return nil, errors.New("queue URL is required")
	}
	if config.TopicARN == "" {
		return nil, errors.New("topic ARN is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var sqsOptions []func(*sqs.Options)
	var snsOptions []func(*sns.Options)
	if config.Endpoint != "" {
		sqsOptions = append(sqsOptions, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
		})
		snsOptions = append(snsOptions, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
		})
	}

	return &Notifier{
		sqs:    sqs.NewFromConfig(awsCfg, sqsOptions...),
		sns:    sns.NewFromConfig(awsCfg, snsOptions...),
		config: config,
	}, nil
}

func (n *Notifier) Enqueue(ctx context.Context, body string) error {
	_, err := n.sqs.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(n.config.QueueURL),
		MessageBody:  aws.String(body),
		DelaySeconds: n.config.DelaySeconds,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to queue: %w", err)
	}
	return nil
}

func (n *Notifier) ReceiveBatch(ctx context.Context, maxMessages int, wait time.Duration) ([]imagevault.QueueMessage, error) {
	result, err := n.sqs.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(n.config.QueueURL),
		MaxNumberOfMessages: int32(maxMessages),
		WaitTimeSeconds:     int32(wait / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages from queue: %w", err)
	}

	messages := make([]imagevault.QueueMessage, 0, len(result.Messages))
	for _, msg := range result.Messages {
		messages = append(messages, imagevault.QueueMessage{
			Body:          aws.ToString(msg.Body),
			ReceiptHandle: aws.ToString(msg.ReceiptHandle),
		})
	}

	return messages, nil
}

func (n *Notifier) Acknowledge(ctx context.Context, receiptHandle string) error {
	_, err := n.sqs.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(n.config.QueueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message from queue: %w", err)
	}
	return nil
}

func (n *Notifier) Publish(ctx context.Context, body string) error {
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.TopicARN),
		Message:  aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to publish message to topic: %w", err)
	}
	return nil
}

func (n *Notifier) Subscribe(ctx context.Context, endpoint string) error {
	_, err := n.sns.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn: aws.String(n.config.TopicARN),
		Protocol: aws.String(subscriptionProtocol),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe %s to topic: %w", endpoint, err)
	}
	return nil
}

// Unsubscribe resolves the endpoint to a subscription ARN by scanning the
// topic's current subscriptions. An endpoint with no subscription is a
// no-op.
func (n *Notifier) Unsubscribe(ctx context.Context, endpoint string) error {
	subs, err := n.ListSubscriptions(ctx)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		if sub.Endpoint != endpoint {
			continue
		}
		_, err := n.sns.Unsubscribe(ctx, &sns.UnsubscribeInput{
			SubscriptionArn: aws.String(sub.ARN),
		})
		if err != nil {
			return fmt.Errorf("failed to unsubscribe %s from topic: %w", endpoint, err)
		}
		return nil
	}

	return nil
}

func (n *Notifier) ListSubscriptions(ctx context.Context) ([]imagevault.Subscription, error) {
	var subs []imagevault.Subscription
	var nextToken *string

	for {
		result, err := n.sns.ListSubscriptionsByTopic(ctx, &sns.ListSubscriptionsByTopicInput{
			TopicArn:  aws.String(n.config.TopicARN),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list topic subscriptions: %w", err)
		}

		for _, sub := range result.Subscriptions {
			subs = append(subs, imagevault.Subscription{
				Endpoint: aws.ToString(sub.Endpoint),
				ARN:      aws.ToString(sub.SubscriptionArn),
			})
		}

		if result.NextToken == nil {
			break
		}
		nextToken = result.NextToken
	}

	return subs, nil
}
