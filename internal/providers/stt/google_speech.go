package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

// GoogleSpeech is the alternate Recognizer (STT_PROVIDER=google). The Listen
// contract is URL-based, so the recording is fetched first and recognized
// inline. Encoding matches the recorder's output: mono LINEAR16 at 44.1kHz.
type GoogleSpeech struct {
	c     *speech.Client
	httpc *http.Client

	Encoding     speechpb.RecognitionConfig_AudioEncoding
	SampleRateHz int32
	Language     string
}

func NewGoogleSpeech(ctx context.Context) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{
		c:            c,
		httpc:        http.DefaultClient,
		Encoding:     speechpb.RecognitionConfig_LINEAR16,
		SampleRateHz: 44100,
		Language:     "en-US",
	}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) Transcribe(ctx context.Context, audioURL string) (string, error) {
	audio, err := g.fetch(ctx, audioURL)
	if err != nil {
		return "", err
	}

	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   g.Encoding,
			SampleRateHertz:            g.SampleRateHz,
			LanguageCode:               g.Language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", err
	}

	return bestTranscript(resp.Results)
}

// bestTranscript picks the highest-confidence non-empty alternative. A
// response with nothing recognizable is an error, the caller decides
// whether an empty transcript is acceptable.
func bestTranscript(results []*speechpb.SpeechRecognitionResult) (string, error) {
	var bestText string
	var bestConf float64
	for _, r := range results {
		for _, alt := range r.Alternatives {
			if alt.Transcript != "" && float64(alt.Confidence) >= bestConf {
				bestText = alt.Transcript
				bestConf = float64(alt.Confidence)
			}
		}
	}
	if bestText == "" {
		return "", errors.New("google speech: response missing transcript")
	}
	return bestText, nil
}

func (g *GoogleSpeech) fetch(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch audio: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("fetch audio: empty body")
	}
	return body, nil
}
