package app

import (
	"quizreel/internal/distribution"
	"quizreel/internal/encoder"
	"quizreel/internal/ledger"
	"quizreel/internal/question"
	"quizreel/internal/render"
	"quizreel/internal/scheduler"
	"quizreel/internal/thumbs"
	"quizreel/internal/titlegen"
	"quizreel/internal/videocache"
	"quizreel/pkg/config"
)

type Service struct {
	cfg       *config.Config
	picker    *question.Picker
	quiz      *render.QuizRenderer
	cta       *render.CTARenderer
	thumbs    *thumbs.Fetcher
	encoder   *encoder.Encoder
	cache     *videocache.Cache
	store     *ledger.Store
	scheduler *scheduler.Scheduler
	uploaders map[string]distribution.Uploader
	archiver  *distribution.Archiver
	titles    *titlegen.Generator
}

type ServiceOptions struct {
	Config    *config.Config
	Picker    *question.Picker
	Quiz      *render.QuizRenderer
	CTA       *render.CTARenderer
	Thumbs    *thumbs.Fetcher
	Encoder   *encoder.Encoder
	Cache     *videocache.Cache
	Store     *ledger.Store
	Scheduler *scheduler.Scheduler
	Uploaders []distribution.Uploader
	Archiver  *distribution.Archiver
	Titles    *titlegen.Generator
}

func NewService(opts ServiceOptions) *Service {
	uploaders := make(map[string]distribution.Uploader, len(opts.Uploaders))
	for _, u := range opts.Uploaders {
		uploaders[u.Platform()] = u
	}
	return &Service{
		cfg:       opts.Config,
		picker:    opts.Picker,
		quiz:      opts.Quiz,
		cta:       opts.CTA,
		thumbs:    opts.Thumbs,
		encoder:   opts.Encoder,
		cache:     opts.Cache,
		store:     opts.Store,
		scheduler: opts.Scheduler,
		uploaders: uploaders,
		archiver:  opts.Archiver,
		titles:    opts.Titles,
	}
}

func (s *Service) Config() *config.Config          { return s.cfg }
func (s *Service) Store() *ledger.Store            { return s.store }
func (s *Service) Scheduler() *scheduler.Scheduler { return s.scheduler }

func (s *Service) Uploader(platform string) (distribution.Uploader, bool) {
	u, ok := s.uploaders[platform]
	return u, ok
}

func (s *Service) Close() error {
	var firstErr error
	if s.archiver != nil {
		if err := s.archiver.Close(); err != nil {
			firstErr = err
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
