package stt

import (
	"context"
	"errors"
	"sync"

	listenapi "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	listenv1 "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest/interfaces"
	dginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
)

// initOnce guards the SDK's global init: it registers klog flags on the
// process-wide flag set and panics if run twice.
var initOnce sync.Once

// Deepgram transcribes through the Deepgram Listen REST API. The audio is
// referenced by URL, never uploaded inline.
type Deepgram struct {
	api   *listenapi.Client
	model string
}

func NewDeepgram(apiKey, host, model string) *Deepgram {
	if model == "" {
		model = "nova-2"
	}
	initOnce.Do(listen.InitWithDefault)

	opts := &dginterfaces.ClientOptions{APIKey: apiKey}
	if host != "" {
		opts.Host = host
	}
	return &Deepgram{
		api:   listenapi.New(listen.NewREST(apiKey, opts)),
		model: model,
	}
}

func (d *Deepgram) Close() error { return nil }

func (d *Deepgram) Transcribe(ctx context.Context, audioURL string) (string, error) {
	res, err := d.api.FromURL(ctx, audioURL, &dginterfaces.PreRecordedTranscriptionOptions{
		Model:       d.model,
		SmartFormat: true,
	})
	if err != nil {
		return "", err
	}
	return transcriptOf(res)
}

// transcriptOf pulls the primary transcript out of a Listen response. The
// recordings are mono, so only the first channel carries speech.
func transcriptOf(res *listenv1.PreRecordedResponse) (string, error) {
	if res == nil || res.Results == nil ||
		len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		return "", errors.New("deepgram: response missing transcript")
	}
	return res.Results.Channels[0].Alternatives[0].Transcript, nil
}
