package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/spores-football/internal/domain/football"
	"github.com/riskibarqy/spores-football/internal/platform/logging"
	"github.com/riskibarqy/spores-football/internal/platform/metrics"
)

const (
	warmupStatusSuccess = "success"
	warmupStatusFailed  = "failed"

	defaultWarmupWorkers = 4
	maxWarmupWorkers     = 32
)

type WarmupConfig struct {
	Workers int
	Metrics *metrics.Metrics
	Now     func() time.Time
}

type WarmupResult struct {
	Season       int                `json:"season"`
	TaskCount    int                `json:"task_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	WorkerCount  int                `json:"worker_count"`
	Tasks        []WarmupTaskResult `json:"tasks"`
}

type WarmupTaskResult struct {
	Task       string `json:"task"`
	Status     string `json:"status"`
	Records    int    `json:"records"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type warmupTask struct {
	name string
	run  func(ctx context.Context) (int, error)
}

// WarmupService fills the cache ahead of traffic by calling the public
// read operations; entries are written as a side effect of their misses.
type WarmupService struct {
	football *FootballService
	workers  int
	metrics  *metrics.Metrics
	logger   *logging.Logger
	now      func() time.Time
}

func NewWarmupService(footballSvc *FootballService, cfg WarmupConfig, logger *logging.Logger) *WarmupService {
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &WarmupService{
		football: footballSvc,
		workers:  cfg.Workers,
		metrics:  cfg.Metrics,
		logger:   logger,
		now:      now,
	}
}

func (s *WarmupService) Run(ctx context.Context) (WarmupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WarmupService.Run")
	defer span.End()

	season := football.CurrentSeason(s.now())
	tasks := s.buildTasks(season)
	workerCount := normalizeWarmupWorkerCount(s.workers, len(tasks))

	result := WarmupResult{
		Season:      season,
		TaskCount:   len(tasks),
		WorkerCount: workerCount,
		Tasks:       make([]WarmupTaskResult, 0, len(tasks)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		recordSpanError(span, err)
		return WarmupResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	taskCtx := withUpstreamErrors(ctx)
	rows := make(chan WarmupTaskResult, len(tasks))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, task := range tasks {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := WarmupTaskResult{Task: task.name, Status: warmupStatusSuccess}
			records, runErr := task.run(taskCtx)
			row.Records = records
			row.DurationMs = time.Since(start).Milliseconds()
			if runErr != nil {
				row.Status = warmupStatusFailed
				row.Message = runErr.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "warmup task failed", "task", task.name, "error", runErr)
			} else {
				successCount.Add(1)
			}
			s.metrics.ObserveWarmupTask(row.Status)
			rows <- row
		}); err != nil {
			workers.Done()
			workers.Wait()
			recordSpanError(span, err)
			return WarmupResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Task < result.Tasks[j].Task
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	s.logger.InfoContext(ctx, "cache warmup finished",
		"season", season,
		"tasks", result.TaskCount,
		"succeeded", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *WarmupService) buildTasks(season int) []warmupTask {
	tasks := []warmupTask{
		{name: "popular_leagues", run: func(ctx context.Context) (int, error) {
			items, err := s.football.GetPopularLeagues(ctx)
			return len(items), err
		}},
		{name: "live_matches", run: func(ctx context.Context) (int, error) {
			items, err := s.football.GetLiveMatches(ctx)
			return len(items), err
		}},
		{name: "today_matches", run: func(ctx context.Context) (int, error) {
			items, err := s.football.GetTodayMatches(ctx)
			return len(items), err
		}},
	}
	for _, leagueID := range s.football.PopularLeagueIDs() {
		tasks = append(tasks, warmupTask{
			name: "league_teams:" + strconv.FormatInt(leagueID, 10),
			run: func(ctx context.Context) (int, error) {
				items, err := s.football.GetLeagueTeams(ctx, leagueID, season)
				return len(items), err
			},
		})
	}
	return tasks
}

func normalizeWarmupWorkerCount(requested, taskCount int) int {
	workers := requested
	if workers <= 0 {
		workers = defaultWarmupWorkers
	}
	if workers > maxWarmupWorkers {
		workers = maxWarmupWorkers
	}
	if taskCount > 0 && workers > taskCount {
		workers = taskCount
	}
	return workers
}
