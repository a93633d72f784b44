package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notadequate/remindd/internal/ai"
	"github.com/notadequate/remindd/internal/reminder"
)

type fakeRecorder struct {
	audio    []byte
	startErr error
	stopErr  error
}

func (f *fakeRecorder) Start(context.Context) error { return f.startErr }
func (f *fakeRecorder) Stop(context.Context) ([]byte, error) {
	return f.audio, f.stopErr
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, []byte) (string, error) {
	return f.text, f.err
}

type fakeParser struct {
	result *ai.ParseResult
	err    error
}

func (f *fakeParser) ParseText(context.Context, string) (*ai.ParseResult, error) {
	return f.result, f.err
}

func drainStates(s *Service) []State {
	var states []State
	for {
		select {
		case st := <-s.States():
			states = append(states, st)
		default:
			return states
		}
	}
}

func TestVoiceHappyPath(t *testing.T) {
	svc := NewService(
		&fakeRecorder{audio: []byte("RIFF....")},
		&fakeTranscriber{text: "call the plumber tomorrow at nine"},
		&fakeParser{result: &ai.ParseResult{
			Reminders:  []reminder.Reminder{{Title: "call the plumber"}},
			Confidence: 0.9,
		}},
	)
	ctx := context.Background()

	require.NoError(t, svc.StartRecording(ctx))
	require.Equal(t, StateRecording, svc.State())

	require.NoError(t, svc.StopRecording(ctx))
	require.Equal(t, StateCompleted, svc.State())

	require.Equal(t,
		[]State{StateRecording, StateProcessing, StateCompleted},
		drainStates(svc))

	require.Equal(t, "call the plumber tomorrow at nine", <-svc.Transcripts())

	results := <-svc.Results()
	require.Len(t, results, 1)
	require.Equal(t, "call the plumber", results[0].Title)
}

func TestVoiceBusyGuard(t *testing.T) {
	svc := NewService(&fakeRecorder{audio: []byte("x")}, &fakeTranscriber{text: "t"},
		&fakeParser{result: &ai.ParseResult{Reminders: []reminder.Reminder{{Title: "t"}}}})
	ctx := context.Background()

	require.NoError(t, svc.StartRecording(ctx))
	require.ErrorContains(t, svc.StartRecording(ctx), "cannot start recording while recording")

	require.NoError(t, svc.StopRecording(ctx))
	require.ErrorContains(t, svc.StopRecording(ctx), "cannot stop recording while completed")
}

func TestVoiceTranscriptionErrorEntersErrorState(t *testing.T) {
	svc := NewService(
		&fakeRecorder{audio: []byte("x")},
		&fakeTranscriber{err: errors.New("whisper offline")},
		&fakeParser{},
	)
	ctx := context.Background()

	require.NoError(t, svc.StartRecording(ctx))
	require.ErrorContains(t, svc.StopRecording(ctx), "transcription failed")
	require.Equal(t, StateError, svc.State())

	// A new session is rejected until reset.
	require.Error(t, svc.StartRecording(ctx))

	svc.ResetState()
	require.Equal(t, StateIdle, svc.State())
	require.NoError(t, svc.StartRecording(ctx))
}

func TestVoiceEmptyAudioFails(t *testing.T) {
	svc := NewService(&fakeRecorder{}, &fakeTranscriber{text: "t"}, &fakeParser{})
	ctx := context.Background()

	require.NoError(t, svc.StartRecording(ctx))
	require.ErrorContains(t, svc.StopRecording(ctx), "no audio captured")
	require.Equal(t, StateError, svc.State())
}

func TestVoiceParserErrorProducesNoResults(t *testing.T) {
	svc := NewService(
		&fakeRecorder{audio: []byte("x")},
		&fakeTranscriber{text: "mumbling"},
		&fakeParser{err: errors.New("no reminders found")},
	)
	ctx := context.Background()

	require.NoError(t, svc.StartRecording(ctx))
	require.ErrorContains(t, svc.StopRecording(ctx), "failed to parse transcript")
	require.Equal(t, StateError, svc.State())

	select {
	case <-svc.Results():
		t.Fatal("no results expected after an error")
	default:
	}
}
