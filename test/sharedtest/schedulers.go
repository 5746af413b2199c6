package sharedtest

import "sync"

// FakeSchedulers records scheduled work instead of pushing tasks to redis.
type FakeSchedulers struct {
	mu       sync.Mutex
	scans    []uint
	improves []string
}

func (s *FakeSchedulers) ScheduleScan(repoID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scans = append(s.scans, repoID)
	return nil
}

func (s *FakeSchedulers) ScheduleImprove(jobGUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.improves = append(s.improves, jobGUID)
	return nil
}

func (s *FakeSchedulers) ScanCount(repoID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, id := range s.scans {
		if id == repoID {
			n++
		}
	}
	return n
}

func (s *FakeSchedulers) ImproveCount(jobGUID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, guid := range s.improves {
		if guid == jobGUID {
			n++
		}
	}
	return n
}
