package aws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

// Limite de tamanho de uma mensagem SNS.
const maxMessageBytes = 256 * 1024

// SNSAPI is the subset of the SNS client we use.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes reports to an SNS topic.
type SNSNotifier struct {
	api      SNSAPI
	topicARN string
	timeout  time.Duration
}

// NewSNSNotifier cria um notificador a partir de uma configuração do SDK. The
// client targets the region of the topic ARN, whatever the profile region is.
func NewSNSNotifier(cfg aws.Config, topicARN string, timeout time.Duration) *SNSNotifier {
	client := sns.NewFromConfig(cfg, func(o *sns.Options) {
		if region := topicRegion(topicARN); region != "" {
			o.Region = region
		}
	})
	return NewSNSNotifierWithAPI(client, topicARN, timeout)
}

// topicRegion extrai a região de um ARN "arn:aws:sns:<region>:<account>:<name>".
func topicRegion(topicARN string) string {
	parts := strings.SplitN(topicARN, ":", 6)
	if len(parts) < 6 || parts[0] != "arn" || parts[2] != "sns" {
		return ""
	}
	return parts[3]
}

// NewSNSNotifierWithAPI creates a notifier with a custom API implementation (for testing).
func NewSNSNotifierWithAPI(api SNSAPI, topicARN string, timeout time.Duration) *SNSNotifier {
	return &SNSNotifier{api: api, topicARN: topicARN, timeout: timeout}
}

// customNotification is the custom notification schema understood by chat
// integrations subscribed to the topic.
type customNotification struct {
	Version string        `json:"version"`
	Source  string        `json:"source"`
	Content customContent `json:"content"`
}

type customContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// BuildInput serializes a payload into a publish request. Text payloads use
// the custom notification schema; image payloads use a JSON message structure
// carrying the base64 image under the "default" key.
func (n *SNSNotifier) BuildInput(payload entity.NotificationPayload) (*sns.PublishInput, error) {
	input := &sns.PublishInput{TopicArn: aws.String(n.topicARN)}

	if payload.HasImage() {
		envelope := map[string]string{
			"default": base64.StdEncoding.EncodeToString(payload.Image),
		}
		body, err := json.Marshal(envelope)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding chart envelope: %v", types.ErrDelivery, err)
		}
		input.Message = aws.String(string(body))
		input.MessageStructure = aws.String("json")
		input.MessageAttributes = map[string]snsTypes.MessageAttributeValue{
			"content-type": {DataType: aws.String("String"), StringValue: aws.String(payload.ContentType)},
		}
	} else {
		body, err := json.Marshal(customNotification{
			Version: "1.0",
			Source:  "custom",
			Content: customContent{Title: payload.Title, Description: payload.Description},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: encoding notification: %v", types.ErrDelivery, err)
		}
		input.Message = aws.String(string(body))
	}

	if payload.Subject != "" {
		input.Subject = aws.String(payload.Subject)
	}

	if size := len(aws.ToString(input.Message)); size > maxMessageBytes {
		return nil, fmt.Errorf("%w: message is %d bytes, limit is %d", types.ErrDelivery, size, maxMessageBytes)
	}
	return input, nil
}

// Publish sends the payload to the topic.
func (n *SNSNotifier) Publish(ctx context.Context, payload entity.NotificationPayload) (entity.DeliveryResult, error) {
	input, err := n.BuildInput(payload)
	if err != nil {
		return entity.DeliveryResult{}, err
	}

	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if n.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, n.timeout)
	}
	defer cancel()

	out, err := n.api.Publish(callCtx, input)
	if err != nil {
		return entity.DeliveryResult{}, fmt.Errorf("%w: publishing to %s: %v", types.ErrDelivery, n.topicARN, err)
	}

	return entity.DeliveryResult{
		MessageID: aws.ToString(out.MessageId),
		TopicARN:  n.topicARN,
		Bytes:     len(aws.ToString(input.Message)),
	}, nil
}
