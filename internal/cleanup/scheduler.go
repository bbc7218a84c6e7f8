package cleanup

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Scheduler periodically removes stale files from the media scratch
// directory. Downloads that survived a crash or a hard kill of a subprocess
// would otherwise accumulate forever.
type Scheduler struct {
	scratchDir string
	interval   time.Duration
	maxAge     time.Duration
	stopChan   chan struct{}
}

func NewScheduler(scratchDir string, interval, maxAge time.Duration) *Scheduler {
	return &Scheduler{
		scratchDir: scratchDir,
		interval:   interval,
		maxAge:     maxAge,
		stopChan:   make(chan struct{}),
	}
}

// Start runs one sweep immediately and then sweeps on the configured
// interval until Stop is called.
func (s *Scheduler) Start() {
	log.Println("cleanup: varredura inicial de arquivos temporários")
	s.sweep()

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("cleanup: agendador iniciado (intervalo: %s, idade máxima: %s)", s.interval, s.maxAge)
}

func (s *Scheduler) Stop() {
	close(s.stopChan)
	log.Println("cleanup: agendador parado")
}

// sweep deletes scratch files older than maxAge.
func (s *Scheduler) sweep() {
	now := time.Now()

	var deletedCount int
	var deletedSize int64

	err := filepath.Walk(s.scratchDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		age := now.Sub(info.ModTime())
		if age > s.maxAge {
			size := info.Size()
			if err := os.Remove(path); err != nil {
				log.Printf("cleanup: falha ao remover %s: %v", path, err)
			} else {
				deletedCount++
				deletedSize += size
				log.Printf("cleanup: removido %s (idade: %s, tamanho: %dKB)",
					filepath.Base(path), age.Round(time.Minute), size/1024)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("cleanup: erro durante varredura: %v", err)
	}

	if deletedCount > 0 {
		log.Printf("cleanup: %d arquivos removidos, %.2fMB liberados",
			deletedCount, float64(deletedSize)/(1024*1024))
	}
}
