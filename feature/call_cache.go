package feature

import (
	"context"
	"sort"
	"strings"

	"github.com/rushteam/contentrec/core"
)

// callCache 在单次 Process 内记住 CountItemsSharingAnyTag 的结果，
// 标签集合相同的候选只读取一次目录。随 Process 返回而丢弃，不缓存错误。
type callCache struct {
	core.CatalogReader
	counts map[string]int
}

func newCallCache(next core.CatalogReader) *callCache {
	return &callCache{CatalogReader: next, counts: make(map[string]int)}
}

func (c *callCache) CountItemsSharingAnyTag(ctx context.Context, tags []string) (int, error) {
	key := tagSetKey(tags)
	if n, ok := c.counts[key]; ok {
		return n, nil
	}
	n, err := c.CatalogReader.CountItemsSharingAnyTag(ctx, tags)
	if err != nil {
		return 0, err
	}
	c.counts[key] = n
	return n, nil
}

// tagSetKey 与标签顺序无关。
func tagSetKey(tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
