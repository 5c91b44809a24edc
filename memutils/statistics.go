package memutils

// Statistics is a running total of region counts and sizes across one or more
// block trees. Reserved regions are regions carrying a concrete type tag; free
// regions are the explicit free blocks that tile the rest of the space.
type Statistics struct {
	TreeCount   int
	RegionCount int
	TreeBytes   uintptr
	RegionBytes uintptr
}

func (s *Statistics) Clear() {
	s.TreeCount = 0
	s.RegionCount = 0
	s.TreeBytes = 0
	s.RegionBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.TreeCount += other.TreeCount
	s.RegionCount += other.RegionCount
	s.TreeBytes += other.TreeBytes
	s.RegionBytes += other.RegionBytes
}

type DetailedStatistics struct {
	Statistics
	FreeRegionCount   int
	RegionSizeMin     uintptr
	RegionSizeMax     uintptr
	FreeRegionSizeMin uintptr
	FreeRegionSizeMax uintptr
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRegionCount = 0
	s.RegionSizeMin = ^uintptr(0)
	s.RegionSizeMax = 0
	s.FreeRegionSizeMin = ^uintptr(0)
	s.FreeRegionSizeMax = 0
}

func (s *DetailedStatistics) AddFreeRegion(size uintptr) {
	s.FreeRegionCount++

	if size < s.FreeRegionSizeMin {
		s.FreeRegionSizeMin = size
	}

	if size > s.FreeRegionSizeMax {
		s.FreeRegionSizeMax = size
	}
}

func (s *DetailedStatistics) AddRegion(size uintptr) {
	s.RegionCount++
	s.RegionBytes += size

	if size < s.RegionSizeMin {
		s.RegionSizeMin = size
	}

	if size > s.RegionSizeMax {
		s.RegionSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeRegionCount += other.FreeRegionCount

	if other.FreeRegionSizeMin < s.FreeRegionSizeMin {
		s.FreeRegionSizeMin = other.FreeRegionSizeMin
	}

	if other.FreeRegionSizeMax > s.FreeRegionSizeMax {
		s.FreeRegionSizeMax = other.FreeRegionSizeMax
	}

	if other.RegionSizeMin < s.RegionSizeMin {
		s.RegionSizeMin = other.RegionSizeMin
	}

	if other.RegionSizeMax > s.RegionSizeMax {
		s.RegionSizeMax = other.RegionSizeMax
	}
}
