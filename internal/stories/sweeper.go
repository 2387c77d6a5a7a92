package stories

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rudro-dev/loopgram/backend/internal/repositories"
	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

// Sweeper periodically removes expired stories and clears the story
// back-reference on their authors. MongoDB's TTL monitor reclaims the
// documents eventually on its own; the sweep exists so user rows stop
// pointing at stories that are already past their expiry.
type Sweeper struct {
	stories  repositories.StoryRepository
	users    repositories.UserRepository
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewSweeper(stories repositories.StoryRepository, users repositories.UserRepository, interval time.Duration) *Sweeper {
	return &Sweeper{
		stories:  stories,
		users:    users,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. The first sweep runs immediately so a
// restart does not wait a full interval to clear stale references.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		defer close(s.done)
		logger.Log.Info("story sweeper started", zap.Duration("interval", s.interval))

		s.sweep(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Log.Info("story sweeper stopped")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.stories.FindExpired(ctx)
	if err != nil {
		logger.Log.Error("story sweep query failed", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(expired))
	for _, story := range expired {
		ids = append(ids, story.ID)
		// Conditional clear: a user who already posted a newer story
		// keeps their current reference.
		if err := s.users.ClearStoryRef(story.AuthorID, story.ID.Hex()); err != nil {
			logger.Log.Warn("failed to clear story reference",
				zap.Uint("author_id", story.AuthorID),
				zap.String("story_id", story.ID.Hex()),
				zap.Error(err))
		}
	}

	deleted, err := s.stories.DeleteExpired(ctx, ids)
	if err != nil {
		logger.Log.Error("story sweep delete failed", zap.Error(err))
		return
	}
	logger.Log.Info("swept expired stories", zap.Int64("deleted", deleted))
}
