package processor

import (
	"net/http"
	"sync"

	"github.com/woozymasta/geoaxis/internal/config"

	"github.com/rs/zerolog/log"
)

// Result reports the outcome of a single job.
type Result struct {
	Err     error
	Name    string
	Output  string
	Skipped bool
}

type job struct {
	Job   config.Job
	Index int
}

// ProcessJobs runs jobs on a pool of workers. Results keep the order of jobs.
// A failed job is logged and does not stop the others.
func ProcessJobs(client *http.Client, jobs []config.Job, concurrency int, force bool) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	queue := make(chan job, len(jobs))
	for i, j := range jobs {
		queue <- job{Job: j, Index: i}
	}
	close(queue)

	results := make([]Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				written, err := ProcessJob(client, j.Job, force)
				if err != nil {
					log.Error().
						Err(err).
						Str("job", j.Job.Name).
						Msg("Failed to process job")
				}
				results[j.Index] = Result{
					Name:    j.Job.Name,
					Output:  j.Job.Output,
					Skipped: err == nil && !written,
					Err:     err,
				}
			}
		}()
	}
	wg.Wait()

	return results
}
