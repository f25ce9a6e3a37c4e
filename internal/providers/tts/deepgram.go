package tts

import (
	"context"
	"errors"
	"strings"
	"sync"

	speakapi "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/speak/v1/rest"
	dginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	speak "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/speak"
)

// initOnce guards the SDK's global init: it registers klog flags on the
// process-wide flag set and panics if run twice.
var initOnce sync.Once

const maxNarratedParagraphs = 2

// Deepgram renders narration through the Deepgram Speak REST API with one
// fixed voice. Aura voices return MP3 by default.
type Deepgram struct {
	api   *speakapi.Client
	model string
}

func NewDeepgram(apiKey, host, model string) *Deepgram {
	if model == "" {
		model = "aura-asteria-en"
	}
	initOnce.Do(speak.InitWithDefault)

	opts := &dginterfaces.ClientOptions{APIKey: apiKey}
	if host != "" {
		opts.Host = host
	}
	return &Deepgram{
		api:   speakapi.New(speak.NewREST(apiKey, opts)),
		model: model,
	}
}

func (d *Deepgram) Close() error { return nil }

func (d *Deepgram) Synthesize(ctx context.Context, text string) (*Audio, error) {
	text = FirstParagraphs(text, maxNarratedParagraphs)
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("deepgram: text is required")
	}

	buf := new(dginterfaces.RawResponse)
	res, err := d.api.ToStream(ctx, text, &dginterfaces.SpeakOptions{Model: d.model}, buf)
	if err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, errors.New("deepgram: empty audio result")
	}

	mime := "audio/mpeg"
	if res != nil && res.ContextType != "" {
		mime = res.ContextType
	}
	return &Audio{Bytes: buf.Bytes(), MimeType: mime}, nil
}

// FirstParagraphs keeps the leading n blank-line-separated paragraphs.
func FirstParagraphs(text string, n int) string {
	paragraphs := strings.Split(text, "\n\n")
	if len(paragraphs) <= n {
		return text
	}
	return strings.Join(paragraphs[:n], "\n\n")
}
