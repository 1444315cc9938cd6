package util

import (
	"log"
	"runtime"
)

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func Max(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func Min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

// DistanceBucket groups a positive distance into 1, 2-5 or 6+
func DistanceBucket(d int) string {
	switch d = AbsInt(d); {
	case d <= 1:
		return "1"
	case d <= 5:
		return "2-5"
	default:
		return "6+"
	}
}

func LogMemory() {
	s := &runtime.MemStats{}
	runtime.ReadMemStats(s)
	log.Println("*** Memory Info ***")
	log.Println("Bytes Allocated InUse:\t", s.Alloc)
	log.Println("Mallocs:\t\t", s.Mallocs)
	log.Println("Frees:\t\t\t", s.Frees)
	log.Println("Heap Allocated InUse:\t", s.HeapAlloc)
	log.Println("Heap Objects:\t\t", s.HeapObjects)
	log.Println("*** ***")
}
