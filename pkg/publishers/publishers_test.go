package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/pubsub"
	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() Event {
	return NewEvent("th-premium", domain.Story{
		Summary: domain.SummaryRecord{ID: "68912345", Title: "Flood waters rise", URL: "https://www.thehindu.com/x/article68912345.ece"},
	})
}

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	return &sns.PublishOutput{MessageId: aws.String("m-2")}, nil
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	a, b := sampleEvent(), sampleEvent()
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, EventTypeStory, a.Type)
	assert.Equal(t, "th-premium", a.ProviderID)
	assert.False(t, a.HarvestedAt.IsZero())
	assert.Nil(t, a.Article)
}

func TestAWSSQSSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("sends payload with routing attributes", func(t *testing.T) {
		t.Parallel()

		client := &fakeSQS{}
		sender := &awsSQSSender{queueURL: "https://sqs.local/q", client: client, log: ensureLogger(nil)}
		evt := sampleEvent()

		require.NoError(t, sender.Send(context.Background(), evt))
		require.NotNil(t, client.input)
		assert.Equal(t, "https://sqs.local/q", aws.ToString(client.input.QueueUrl))
		assert.Equal(t, "th-premium", aws.ToString(client.input.MessageAttributes["provider_id"].StringValue))
		assert.Equal(t, "68912345", aws.ToString(client.input.MessageAttributes["record_id"].StringValue))

		var decoded Event
		require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.input.MessageBody)), &decoded))
		assert.Equal(t, evt.ID, decoded.ID)
		assert.Equal(t, "Flood waters rise", decoded.Summary.Title)
	})

	t.Run("wraps client errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("throttled")
		sender := &awsSQSSender{client: &fakeSQS{err: boom}, log: ensureLogger(nil)}
		err := sender.Send(context.Background(), sampleEvent())
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})
}

func TestAWSSNSSender_Send(t *testing.T) {
	t.Parallel()

	client := &fakeSNS{}
	sender := &awsSNSSender{topicARN: "arn:aws:sns:ap-south-1:1:khobor", client: client, log: ensureLogger(nil)}

	require.NoError(t, sender.Send(context.Background(), sampleEvent()))
	require.NotNil(t, client.input)
	assert.Equal(t, "arn:aws:sns:ap-south-1:1:khobor", aws.ToString(client.input.TopicArn))
	assert.Equal(t, EventTypeStory, aws.ToString(client.input.MessageAttributes["event_type"].StringValue))
}

type fakeAck struct {
	id  string
	err error
}

func (a fakeAck) Get(context.Context) (string, error) { return a.id, a.err }

type fakeTopic struct {
	msgs []*pubsub.Message
	err  error
}

func (f *fakeTopic) Publish(_ context.Context, msg *pubsub.Message) publishAck {
	f.msgs = append(f.msgs, msg)
	return fakeAck{id: "ps-1", err: f.err}
}

func TestGCPPubSubSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("publishes payload with routing attributes", func(t *testing.T) {
		t.Parallel()

		topic := &fakeTopic{}
		sender := &gcpPubSubSender{topic: topic, log: ensureLogger(nil)}
		evt := sampleEvent()

		require.NoError(t, sender.Send(context.Background(), evt))
		require.Len(t, topic.msgs, 1)
		assert.Equal(t, map[string]string{
			"provider_id": "th-premium",
			"event_type":  EventTypeStory,
			"record_id":   "68912345",
		}, topic.msgs[0].Attributes)

		var decoded Event
		require.NoError(t, json.Unmarshal(topic.msgs[0].Data, &decoded))
		assert.Equal(t, evt.ID, decoded.ID)
		assert.Equal(t, "Flood waters rise", decoded.Summary.Title)
	})

	t.Run("surfaces ack errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("topic not found")
		sender := &gcpPubSubSender{topic: &fakeTopic{err: boom}, log: ensureLogger(nil)}
		err := sender.Send(context.Background(), sampleEvent())
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})
}

func TestHTTPPublisher_Publish(t *testing.T) {
	t.Parallel()

	t.Run("posts the event as json", func(t *testing.T) {
		t.Parallel()

		var got Event
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "secret", r.Header.Get("X-Token"))
			body, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(body, &got))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
			ID:   "sink",
			Type: TypeHTTP,
			HTTP: &HTTPPublisherConfig{URL: server.URL, Method: http.MethodPut, Headers: map[string]string{"X-Token": "secret"}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "sink", pub.ID())
		assert.Equal(t, TypeHTTP, pub.Type())

		evt := sampleEvent()
		require.NoError(t, pub.Publish(context.Background(), evt))
		assert.Equal(t, evt.ID, got.ID)
	})

	t.Run("non-2xx fails", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		pub, err := newHTTPPublisher(context.Background(), PublisherConfig{ID: "sink", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: server.URL}}, nil)
		require.NoError(t, err)
		require.Error(t, pub.Publish(context.Background(), sampleEvent()))
	})

	t.Run("requires http config", func(t *testing.T) {
		t.Parallel()

		_, err := newHTTPPublisher(context.Background(), PublisherConfig{ID: "sink", Type: TypeHTTP}, nil)
		require.Error(t, err)
	})
}

func TestLoadRegistry(t *testing.T) {
	t.Setenv("SQS_SECRET", "s3cr3t")

	path := filepath.Join(t.TempDir(), "publishers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`publishers:
  - id: webhook
    type: HTTP
    http:
      url: " https://hooks.example.com/khobor "
  - id: queue
    type: queue
    enabled: false
    queue:
      provider: AWS-SQS
      aws:
        uri: https://sqs.ap-south-1.amazonaws.com/1/khobor
        region: ap-south-1
        access_key_id: AKIA
        secret_access_key: ${SQS_SECRET}
`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.All(), 2)

	hook, ok := reg.ByID("webhook")
	require.True(t, ok)
	assert.Equal(t, TypeHTTP, hook.Type)
	assert.Equal(t, "https://hooks.example.com/khobor", hook.HTTP.URL)
	assert.Equal(t, httpDefaultMethod, hook.HTTP.Method)
	assert.Equal(t, httpDefaultTimeoutSeconds, hook.HTTP.TimeoutSeconds)

	q, ok := reg.ByID("queue")
	require.True(t, ok)
	assert.Equal(t, QueueProviderAWSSQS, q.Queue.Provider)
	assert.Equal(t, "s3cr3t", q.Queue.AWS.SecretAccessKey)

	enabled := reg.Enabled()
	require.Len(t, enabled, 1)
	assert.Equal(t, "webhook", enabled[0].ID)
}

func TestValidatePublisherConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     PublisherConfig
		wantErr string
	}{
		{name: "missing id", cfg: PublisherConfig{Type: TypeHTTP}, wantErr: "id is required"},
		{name: "missing type", cfg: PublisherConfig{ID: "a"}, wantErr: "type is required"},
		{name: "unknown type", cfg: PublisherConfig{ID: "a", Type: "smtp"}, wantErr: "not supported"},
		{name: "http without url", cfg: PublisherConfig{ID: "a", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{}}, wantErr: "http.url"},
		{name: "queue without config", cfg: PublisherConfig{ID: "a", Type: TypeQueue}, wantErr: "queue config required"},
		{name: "sqs missing region", cfg: PublisherConfig{ID: "a", Type: TypeQueue, Queue: &QueuePublisherConfig{
			Provider: QueueProviderAWSSQS,
			AWS:      &AWSSQSPublisherConfig{QueueURL: "u", AccessKeyID: "k", SecretAccessKey: "s"},
		}}, wantErr: "sqs.region"},
		{name: "gcp missing topic", cfg: PublisherConfig{ID: "a", Type: TypeQueue, Queue: &QueuePublisherConfig{
			Provider: QueueProviderGCP,
			GCP:      &GCPQueueConfig{ProjectID: "p"},
		}}, wantErr: "gcp.topic"},
		{name: "unknown queue provider", cfg: PublisherConfig{ID: "a", Type: TypeQueue, Queue: &QueuePublisherConfig{Provider: "azure"}}, wantErr: "not supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validatePublisherConfig(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	require.NoError(t, validatePublisherConfig(PublisherConfig{ID: "a", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://x"}}))
}

type recordingPublisher struct {
	id     string
	events []Event
}

func (p *recordingPublisher) ID() string   { return p.id }
func (p *recordingPublisher) Type() string { return "memory" }
func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.events = append(p.events, evt)
	return nil
}

func TestBuildAll(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(map[string]Builder{
		"memory": func(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
			return &recordingPublisher{id: cfg.ID}, nil
		},
	})
	off := false

	t.Run("builds enabled publishers case-insensitively", func(t *testing.T) {
		t.Parallel()

		pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
			{ID: "a", Type: "Memory"},
			{ID: "skipped", Type: "memory", Enabled: &off},
			{ID: "b", Type: "memory"},
		}, nil)
		require.NoError(t, err)
		require.Len(t, pubs, 2)
		assert.Equal(t, "a", pubs[0].ID())
		assert.Equal(t, "b", pubs[1].ID())
	})

	t.Run("unknown type fails", func(t *testing.T) {
		t.Parallel()

		_, err := BuildAll(context.Background(), reg, []PublisherConfig{{ID: "c", Type: "kafka"}}, nil)
		require.Error(t, err)
	})
}

type failingPublisher struct{ err error }

func (p failingPublisher) ID() string                           { return "broken" }
func (p failingPublisher) Type() string                         { return "memory" }
func (p failingPublisher) Publish(context.Context, Event) error { return p.err }

func TestFanout_Publish(t *testing.T) {
	t.Parallel()

	boom := errors.New("sink down")
	first, last := &recordingPublisher{id: "first"}, &recordingPublisher{id: "last"}
	fan := Fanout{first, failingPublisher{err: boom}, last}

	err := fan.Publish(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "publisher broken")
	assert.Len(t, first.events, 1)
	assert.Len(t, last.events, 1, "a failing publisher does not stop the rest")

	require.NoError(t, Fanout(nil).Publish(context.Background(), sampleEvent()))
}

type fakeSender struct {
	sent []Event
	err  error
}

func (s *fakeSender) Send(_ context.Context, evt Event) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, evt)
	return nil
}

func TestQueuePublisher_Publish(t *testing.T) {
	t.Parallel()

	cfg := PublisherConfig{ID: "q", Type: TypeQueue, Queue: &QueuePublisherConfig{Provider: QueueProviderAWSSNS}}

	t.Run("forwards to the sender", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		pub := newQueuePublisherWithSender(cfg, sender, nil)
		require.NoError(t, pub.Publish(context.Background(), sampleEvent()))
		assert.Len(t, sender.sent, 1)
		assert.Equal(t, "q", pub.ID())
	})

	t.Run("names the provider on failure", func(t *testing.T) {
		t.Parallel()

		pub := newQueuePublisherWithSender(cfg, &fakeSender{err: errors.New("denied")}, nil)
		err := pub.Publish(context.Background(), sampleEvent())
		require.Error(t, err)
		assert.Contains(t, err.Error(), QueueProviderAWSSNS)
	})

	t.Run("unknown provider is rejected at build time", func(t *testing.T) {
		t.Parallel()

		_, err := newQueuePublisher(context.Background(), PublisherConfig{ID: "q", Type: TypeQueue, Queue: &QueuePublisherConfig{Provider: "kafka"}}, nil)
		require.Error(t, err)
	})
}
