package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"solvetrack/internal/repository"
)

type LeaderboardEntry struct {
	DisplayName string `json:"display_name"`
	SolvedCount int    `json:"solved_count"`
	Position    int    `json:"position"`
}

// LeaderboardService serves the ranked projection of all accounts and fans
// out a fresh copy to every subscriber whenever the underlying set changes.
type LeaderboardService interface {
	Snapshot(ctx context.Context) ([]LeaderboardEntry, error)
	Subscribe(onUpdate func([]LeaderboardEntry), onError func(error)) (unsubscribe func())
	NotifyChanged(ctx context.Context)
	Close()
}

type leaderboardEvent struct {
	// target limits delivery to a single subscriber (its registration id);
	// zero means broadcast.
	target uint64
}

type leaderboardSubscriber struct {
	onUpdate func([]LeaderboardEntry)
	onError  func(error)
}

type leaderboardService struct {
	repo        repository.AccountRepository
	redisClient *redis.Client
	channel     string

	mu          sync.Mutex
	subscribers map[uint64]*leaderboardSubscriber
	nextID      uint64

	events chan leaderboardEvent
	done   chan struct{}
	closed sync.Once
}

// NewLeaderboardService starts the single dispatch goroutine that delivers
// updates in order. appID namespaces the Redis change channel so independent
// deployments sharing one Redis never cross-talk; a nil Redis client degrades
// to in-process delivery only.
func NewLeaderboardService(repo repository.AccountRepository, redisClient *redis.Client, appID string) LeaderboardService {
	s := &leaderboardService{
		repo:        repo,
		redisClient: redisClient,
		channel:     fmt.Sprintf("%s:leaderboard_changed", appID),
		subscribers: make(map[uint64]*leaderboardSubscriber),
		events:      make(chan leaderboardEvent, 64),
		done:        make(chan struct{}),
	}

	go s.dispatchLoop()

	if redisClient != nil {
		go s.listenRemote()
	}

	return s
}

func (s *leaderboardService) Snapshot(ctx context.Context) ([]LeaderboardEntry, error) {
	accounts, err := s.repo.ListRanked(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, LeaderboardEntry{
			DisplayName: account.DisplayName,
			SolvedCount: account.SolvedCount,
			Position:    i + 1,
		})
	}

	return entries, nil
}

// Subscribe registers the callbacks and schedules an initial delivery of the
// current set. The returned function releases the registration; callers that
// never invoke it leak the subscription for the life of the process.
func (s *leaderboardService) Subscribe(onUpdate func([]LeaderboardEntry), onError func(error)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers[id] = &leaderboardSubscriber{onUpdate: onUpdate, onError: onError}
	s.mu.Unlock()

	s.enqueue(leaderboardEvent{target: id})

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// NotifyChanged is called after every account create, delete or counter
// mutation. With Redis attached the event makes a round trip through the
// change channel so every process (this one included) refreshes; without it
// the event goes straight onto the local queue.
func (s *leaderboardService) NotifyChanged(ctx context.Context) {
	if s.redisClient != nil {
		if err := s.redisClient.Publish(ctx, s.channel, "changed").Err(); err != nil {
			log.Printf("failed to publish leaderboard change: %v", err)
			s.enqueue(leaderboardEvent{})
		}
		return
	}

	s.enqueue(leaderboardEvent{})
}

func (s *leaderboardService) Close() {
	s.closed.Do(func() {
		close(s.done)
	})
}

func (s *leaderboardService) enqueue(ev leaderboardEvent) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// dispatchLoop is the only goroutine that runs subscriber callbacks, so every
// subscriber observes updates in a single, consistent order.
func (s *leaderboardService) dispatchLoop() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			s.deliver(ev)
		}
	}
}

func (s *leaderboardService) deliver(ev leaderboardEvent) {
	entries, err := s.Snapshot(context.Background())

	s.mu.Lock()
	targets := make([]*leaderboardSubscriber, 0, len(s.subscribers))
	if ev.target != 0 {
		if sub, ok := s.subscribers[ev.target]; ok {
			targets = append(targets, sub)
		}
	} else {
		for _, sub := range s.subscribers {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range targets {
		if err != nil {
			if sub.onError != nil {
				sub.onError(err)
			}
			continue
		}
		sub.onUpdate(entries)
	}
}

func (s *leaderboardService) listenRemote() {
	pubsub := s.redisClient.Subscribe(context.Background(), s.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-s.done:
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			s.enqueue(leaderboardEvent{})
		}
	}
}
