package client

import (
	"fmt"
)

func StartAt(start int) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("startAt=%d", start))
	}
}

func MaxResults(count int) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("maxResults=%d", count))
	}
}

func IncludeAttributes(include bool) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("includeAttributes=%t", include))
	}
}
