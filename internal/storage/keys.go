package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object key layout, by purpose:
//
//	resumes/{interviewId}-{uuid}-{originalFilename}
//	interviews/{interviewId}-{uuid}.txt
//	recordings/interview-{timestamp}.wav
//	intros/audio-{uuid}.mp3

func ResumeKey(interviewID, fileName string) string {
	return fmt.Sprintf("resumes/%s-%s-%s", interviewID, uuid.NewString(), sanitizeFileName(fileName))
}

func ScriptKey(interviewID string) string {
	return fmt.Sprintf("interviews/%s-%s.txt", interviewID, uuid.NewString())
}

func RecordingKey(at time.Time) string {
	return fmt.Sprintf("recordings/interview-%d.wav", at.UnixMilli())
}

func IntroKey() string {
	return fmt.Sprintf("intros/audio-%s.mp3", uuid.NewString())
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
