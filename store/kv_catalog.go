package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/rushteam/contentrec/core"
)

// KVCatalog 是基于 KeyValueStore 的内容目录与用户历史。
//
// Key 布局（prefix 默认 "contentrec"）：
//
//	{prefix}:item:{id}       内容 JSON（core.CandidateItem）
//	{prefix}:items           全部内容 ID 的集合
//	{prefix}:tag:{tag}       带有该标签的内容 ID 集合
//	{prefix}:history:{user}  交互记录 JSON 数组（core.EngagementRecord）
type KVCatalog struct {
	store  core.KeyValueStore
	prefix string

	// 历史写入是读改写，进程内串行化
	historyMu sync.Mutex
}

// NewKVCatalog 创建目录；prefix 为空时使用 "contentrec"。
func NewKVCatalog(store core.KeyValueStore, prefix string) *KVCatalog {
	if prefix == "" {
		prefix = "contentrec"
	}
	return &KVCatalog{store: store, prefix: prefix}
}

func (c *KVCatalog) itemKey(id string) string        { return c.prefix + ":item:" + id }
func (c *KVCatalog) itemsKey() string                { return c.prefix + ":items" }
func (c *KVCatalog) tagKey(tag string) string        { return c.prefix + ":tag:" + tag }
func (c *KVCatalog) historyKey(userID string) string { return c.prefix + ":history:" + userID }

// PutItem 写入内容并更新标签倒排。重复写入同一 ID 时覆盖内容，
// 不再携带的旧标签会从倒排中移除。
func (c *KVCatalog) PutItem(ctx context.Context, item core.CandidateItem) error {
	if item.ID == "" {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: item id is empty")
	}
	item.Tags = core.DedupTags(item.Tags)

	prev, err := c.GetItem(ctx, item.ID)
	if err != nil && !core.IsNotFound(err) {
		return err
	}
	if err == nil {
		keep := make(map[string]struct{}, len(item.Tags))
		for _, tag := range item.Tags {
			keep[tag] = struct{}{}
		}
		for _, tag := range prev.Tags {
			if _, ok := keep[tag]; ok {
				continue
			}
			if err := c.store.SRem(ctx, c.tagKey(tag), item.ID); err != nil {
				return fmt.Errorf("unindex tag %s: %w", tag, err)
			}
		}
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode item %s: %w", item.ID, err)
	}
	if err := c.store.Set(ctx, c.itemKey(item.ID), data); err != nil {
		return fmt.Errorf("put item %s: %w", item.ID, err)
	}
	if err := c.store.SAdd(ctx, c.itemsKey(), item.ID); err != nil {
		return fmt.Errorf("index item %s: %w", item.ID, err)
	}
	for _, tag := range item.Tags {
		if err := c.store.SAdd(ctx, c.tagKey(tag), item.ID); err != nil {
			return fmt.Errorf("index tag %s: %w", tag, err)
		}
	}
	return nil
}

// GetItem 读取单条内容，不存在时返回 NOT_FOUND。
func (c *KVCatalog) GetItem(ctx context.Context, id string) (core.CandidateItem, error) {
	data, err := c.store.Get(ctx, c.itemKey(id))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.CandidateItem{}, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeNotFound,
				fmt.Sprintf("catalog: item %s not found", id), err)
		}
		return core.CandidateItem{}, fmt.Errorf("get item %s: %w", id, err)
	}
	var item core.CandidateItem
	if err := json.Unmarshal(data, &item); err != nil {
		return core.CandidateItem{}, fmt.Errorf("decode item %s: %w", id, err)
	}
	return item, nil
}

// FindCandidates 返回不在 exclude 中的内容，按创建时间降序、ID 升序，最多 limit 条。
func (c *KVCatalog) FindCandidates(ctx context.Context, exclude map[string]struct{}, limit int) ([]core.CandidateItem, error) {
	if limit <= 0 {
		return []core.CandidateItem{}, nil
	}
	ids, err := c.store.SMembers(ctx, c.itemsKey())
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, skip := exclude[id]; skip {
			continue
		}
		keys = append(keys, c.itemKey(id))
	}
	raw, err := c.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	items := make([]core.CandidateItem, 0, len(raw))
	for _, key := range keys {
		data, ok := raw[key]
		if !ok {
			continue
		}
		var item core.CandidateItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// CountItemsSharingAnyTag 返回至少带有其中一个标签的内容数（标签集合的并集大小）。
func (c *KVCatalog) CountItemsSharingAnyTag(ctx context.Context, tags []string) (int, error) {
	tags = core.DedupTags(tags)
	if len(tags) == 0 {
		return 0, nil
	}
	keys := make([]string, len(tags))
	for i, t := range tags {
		keys[i] = c.tagKey(t)
	}
	members, err := c.store.SUnion(ctx, keys...)
	if err != nil {
		return 0, fmt.Errorf("union tags: %w", err)
	}
	return len(members), nil
}

// AddEngagement 记录一次交互；同一内容的记录会被替换。
func (c *KVCatalog) AddEngagement(ctx context.Context, userID string, rec core.EngagementRecord) error {
	if userID == "" || rec.ItemID == "" {
		return core.NewDomainError(core.ModuleHistory, core.ErrorCodeInvalidInput, "history: user id and item id are required")
	}
	c.historyMu.Lock()
	defer c.historyMu.Unlock()

	history, err := c.GetEngagementRecords(ctx, userID)
	if err != nil {
		return err
	}
	rec.Tags = core.DedupTags(rec.Tags)
	replaced := false
	for i := range history {
		if history[i].ItemID == rec.ItemID {
			history[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		history = append(history, rec)
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := c.store.Set(ctx, c.historyKey(userID), data); err != nil {
		return fmt.Errorf("put history %s: %w", userID, err)
	}
	return nil
}

// GetEngagementRecords 返回用户的交互记录；没有历史时返回空切片。
func (c *KVCatalog) GetEngagementRecords(ctx context.Context, userID string) ([]core.EngagementRecord, error) {
	data, err := c.store.Get(ctx, c.historyKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []core.EngagementRecord{}, nil
		}
		return nil, fmt.Errorf("get history %s: %w", userID, err)
	}
	var history []core.EngagementRecord
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", userID, err)
	}
	return history, nil
}

var (
	_ core.CatalogReader = (*KVCatalog)(nil)
	_ core.HistoryReader = (*KVCatalog)(nil)
)
