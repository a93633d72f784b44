// Package voice captures audio, transcribes it, and turns the transcript
// into candidate reminders.
package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/notadequate/remindd/internal/ai"
	"github.com/notadequate/remindd/internal/reminder"
)

// State is the voice capture lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

// Recorder is the audio capture source.
type Recorder interface {
	// Start begins capturing audio.
	Start(ctx context.Context) error

	// Stop ends the capture and returns the recorded audio (WAV bytes).
	Stop(ctx context.Context) ([]byte, error)
}

// Transcriber converts captured audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ResultParser turns a transcript into candidate reminders. *ai.Parser
// satisfies it.
type ResultParser interface {
	ParseText(ctx context.Context, text string) (*ai.ParseResult, error)
}

// Service drives one capture session at a time and pushes progress on
// three independent streams: lifecycle states, transcription text, and
// parsed reminder results. A session that ends in StateError must be
// Reset before the service accepts a new recording.
type Service struct {
	recorder    Recorder
	transcriber Transcriber
	parser      ResultParser

	mu    sync.Mutex
	state State

	states      chan State
	transcripts chan string
	results     chan []reminder.Reminder
}

// NewService creates a voice service in the idle state.
func NewService(recorder Recorder, transcriber Transcriber, parser ResultParser) *Service {
	return &Service{
		recorder:    recorder,
		transcriber: transcriber,
		parser:      parser,
		state:       StateIdle,
		states:      make(chan State, 16),
		transcripts: make(chan string, 16),
		results:     make(chan []reminder.Reminder, 4),
	}
}

// States is the lifecycle stream.
func (s *Service) States() <-chan State { return s.states }

// Transcripts is the transcription text stream.
func (s *Service) Transcripts() <-chan string { return s.transcripts }

// Results is the parsed-reminders stream.
func (s *Service) Results() <-chan []reminder.Reminder { return s.results }

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartRecording begins a capture session. Only one session runs at a
// time: any state other than idle is rejected.
func (s *Service) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot start recording while %s", state)
	}
	s.state = StateRecording
	s.mu.Unlock()
	s.emitState(StateRecording)

	if err := s.recorder.Start(ctx); err != nil {
		s.fail()
		return fmt.Errorf("failed to start recording: %w", err)
	}
	return nil
}

// StopRecording ends the capture and runs the transcription and parse
// pipeline. The final transcript and parsed reminders are pushed on their
// streams; the session ends in StateCompleted or StateError.
func (s *Service) StopRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRecording {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot stop recording while %s", state)
	}
	s.state = StateProcessing
	s.mu.Unlock()
	s.emitState(StateProcessing)

	audio, err := s.recorder.Stop(ctx)
	if err != nil {
		s.fail()
		return fmt.Errorf("failed to stop recording: %w", err)
	}
	if len(audio) == 0 {
		s.fail()
		return fmt.Errorf("no audio captured")
	}

	text, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		s.fail()
		return fmt.Errorf("transcription failed: %w", err)
	}
	s.emitTranscript(text)

	result, err := s.parser.ParseText(ctx, text)
	if err != nil {
		s.fail()
		return fmt.Errorf("failed to parse transcript: %w", err)
	}

	s.emitResults(result.Reminders)

	s.mu.Lock()
	s.state = StateCompleted
	s.mu.Unlock()
	s.emitState(StateCompleted)
	return nil
}

// ResetState returns the service to idle so a new session can start.
func (s *Service) ResetState() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
	s.emitState(StateIdle)
}

// Close closes all streams. The service must not be used afterwards.
func (s *Service) Close() {
	close(s.states)
	close(s.transcripts)
	close(s.results)
}

func (s *Service) fail() {
	s.mu.Lock()
	s.state = StateError
	s.mu.Unlock()
	s.emitState(StateError)
}

// Stream pushes never block: a slow consumer loses intermediate events
// rather than wedging the pipeline.
func (s *Service) emitState(state State) {
	select {
	case s.states <- state:
	default:
	}
}

func (s *Service) emitTranscript(text string) {
	select {
	case s.transcripts <- text:
	default:
	}
}

func (s *Service) emitResults(reminders []reminder.Reminder) {
	select {
	case s.results <- reminders:
	default:
	}
}
