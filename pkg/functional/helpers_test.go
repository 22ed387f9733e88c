package f

import (
	"reflect"
	"testing"
)

func TestSlicesItemsMatch(t *testing.T) {
	tt := []struct {
		s1          []int
		s2          []int
		result      bool
		failMessage string
	}{
		{[]int{1, 2, 3, 4}, []int{1, 2, 3}, false, "Different size Slices should not match"},
		{[]int{1, 2, 3, 3}, []int{1, 2, 3}, false, "Different size Slices should not match even with same items"},
		{[]int{1, 2, 3}, []int{1, 2, 3}, true, "Same order same items Slices should match"},
		{[]int{1, 2, 3}, []int{2, 1, 3}, true, "Different order same items Slices should match"},
		{[]int{1, 2, 3}, []int{1, 2, 4}, false, "Different items Slices should not match"},
		{[]int{1, 2, 3}, []int{1, 1, 3}, false, "Missing items Slices should not match"},
		{[]int{1, 1, 3}, []int{1, 2, 3}, false, "Missing items Slices should not match reversed"},
	}

	for _, tc := range tt {
		if SlicesItemsMatch(tc.s1, tc.s2) != tc.result {
			t.Error(tc.failMessage)
		}
	}
}

func TestSet(t *testing.T) {
	s := NewSet[int]()
	s.Add(1)
	if !s.Contains(1) {
		t.Error("Set should contain Added item")
	}
	if s.Contains(2) {
		t.Error("Set should not contain item that was never Added")
	}
	s.Add(2)
	s.Add(2)
	if len(s) != 2 {
		t.Errorf("Set should hold 2 items, got %d", len(s))
	}
}

func TestMap(t *testing.T) {
	ts := []int{1, 2, 3}
	f := func(t int) int {
		return t * 2
	}
	if !reflect.DeepEqual(Map(ts, f), []int{2, 4, 6}) {
		t.Error("Should multiply each item by 2")
	}
}

func TestMapMap(t *testing.T) {
	tm := map[string]int{"a": 1, "b": 2}
	f := func(t int) int {
		return t * 2
	}
	if !reflect.DeepEqual(MapMap(tm, f), map[string]int{"a": 2, "b": 4}) {
		t.Error("Should multiply each item by 2")
	}
}

func TestFiltered(t *testing.T) {
	ts := []int{1, 2, 3, 4, 5, 6, 7}
	f := func(t int) bool {
		return t%2 == 0
	}
	if !SlicesItemsMatch(Filtered(ts, f), []int{2, 4, 6}) {
		t.Error("Should filter out odd numbers")
	}
}

func TestPartition(t *testing.T) {
	even, odd := Partition([]int{1, 2, 3, 4, 5}, func(t int) bool { return t%2 == 0 })
	if !reflect.DeepEqual(even, []int{2, 4}) {
		t.Errorf("expected [2 4], got %v", even)
	}
	if !reflect.DeepEqual(odd, []int{1, 3, 5}) {
		t.Errorf("expected [1 3 5], got %v", odd)
	}

	matched, rest := Partition([]int{}, func(t int) bool { return true })
	if matched == nil || rest == nil || len(matched) != 0 || len(rest) != 0 {
		t.Error("Empty input should produce empty, non-nil partitions")
	}
}

func TestRemoveDuplicates(t *testing.T) {
	ts := []int{1, 2, 2, 3, 1}
	if !reflect.DeepEqual(RemoveDuplicates(ts), []int{1, 2, 3}) {
		t.Error("Should remove duplicates keeping first occurrence order")
	}
}
