package game

import (
	"strconv"
)

func contains(list []string, id string) bool {
	for _, item := range list {
		if item == id {
			return true
		}
	}
	return false
}

// without returns a new slice, leaving list untouched
func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != id {
			out = append(out, item)
		}
	}
	return out
}

func with(list []string, id string) []string {
	return append(append(make([]string, 0, len(list)+1), list...), id)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return itoa(n) + " " + word + "s"
}
