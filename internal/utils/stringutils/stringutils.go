package stringutils

import (
	"fmt"
	"strings"
)

// Placeholders builds a postgres IN list for list, numbering parameters from start.
// Placeholders([]int64{7, 9}, 2) returns "$2, $3" and the matching args.
func Placeholders[T any](list []T, start int) (string, []any) {
	placeholders := make([]string, len(list))
	args := make([]any, len(list))
	for i, item := range list {
		placeholders[i] = fmt.Sprintf("$%d", start+i)
		args[i] = item
	}

	return strings.Join(placeholders, ", "), args
}
