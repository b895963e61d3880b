package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/gigpost-backend/internal/logger"
	"github.com/yungbote/gigpost-backend/internal/types"
)

const (
	keyPrefix   = "gigpost:request:"
	keyAll      = "gigpost:requests"
	keyByStatus = "gigpost:requests:status:"
	keyByClient = "gigpost:requests:client:"
)

// RedisStore keeps each aggregate as one JSON document under its
// reference key and maintains secondary index sets for the list
// queries. Conditional writes run inside a WATCH/MULTI transaction on
// the document key: the version check happens after WATCH, so any
// concurrent writer either trips the check or aborts the EXEC.
type RedisStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisStore(log *logger.Logger, addr string) (*RedisStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		log: log.With("store", "RedisRequestStore"),
		rdb: rdb,
	}, nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func docKey(reference string) string {
	return keyPrefix + strings.ToLower(reference)
}

func statusKey(status types.RequestStatus) string {
	return keyByStatus + string(status)
}

func clientKey(userReference string) string {
	return keyByClient + strings.ToLower(userReference)
}

func (s *RedisStore) Create(ctx context.Context, req *types.ServiceRequest) (*types.ServiceRequest, error) {
	now := types.Now()
	doc := *req
	doc.Version = 1
	doc.CreatedOn = now
	doc.LastModified = now

	raw, err := json.Marshal(&doc)
	if err != nil {
		return nil, err
	}

	score := float64(time.Now().UnixNano())
	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, docKey(doc.Reference), raw, 0)
		pipe.ZAdd(ctx, keyAll, goredis.Z{Score: score, Member: docKey(doc.Reference)})
		pipe.SAdd(ctx, statusKey(doc.Status), docKey(doc.Reference))
		pipe.SAdd(ctx, clientKey(doc.ServiceClient.UserReference), docKey(doc.Reference))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis create: %w", err)
	}
	return &doc, nil
}

func (s *RedisStore) Update(ctx context.Context, req *types.ServiceRequest) (*types.ServiceRequest, error) {
	key := docKey(req.Reference)
	var saved *types.ServiceRequest

	txn := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, goredis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var current types.ServiceRequest
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			return err
		}
		if current.Version != req.Version {
			return ErrVersionConflict
		}

		doc := *req
		doc.Version++
		doc.LastModified = types.Now()
		next, err := json.Marshal(&doc)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			if current.Status != doc.Status {
				pipe.SRem(ctx, statusKey(current.Status), key)
				pipe.SAdd(ctx, statusKey(doc.Status), key)
			}
			return nil
		})
		if err != nil {
			return err
		}
		saved = &doc
		return nil
	}

	// A failed EXEC means some other writer touched the key between our
	// read and the commit, which is exactly a version conflict.
	err := s.rdb.Watch(ctx, txn, key)
	if errors.Is(err, goredis.TxFailedErr) {
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *RedisStore) FindByReference(ctx context.Context, reference string) (*types.ServiceRequest, error) {
	raw, err := s.rdb.Get(ctx, docKey(reference)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc types.ServiceRequest
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *RedisStore) List(ctx context.Context, p Paging) ([]*types.ServiceRequest, error) {
	start := int64(p.Offset())
	stop := start + int64(p.Limit()) - 1
	keys, err := s.rdb.ZRange(ctx, keyAll, start, stop).Result()
	if err != nil {
		return nil, err
	}
	return s.fetchAll(ctx, keys)
}

func (s *RedisStore) ListByStatus(ctx context.Context, p Paging, statuses []types.RequestStatus) ([]*types.ServiceRequest, error) {
	seen := make(map[string]struct{})
	var keys []string
	for _, status := range statuses {
		members, err := s.rdb.SMembers(ctx, statusKey(status)).Result()
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			if _, ok := seen[member]; ok {
				continue
			}
			seen[member] = struct{}{}
			keys = append(keys, member)
		}
	}
	return s.fetchPage(ctx, keys, p)
}

func (s *RedisStore) ListByServiceClient(ctx context.Context, p Paging, userReference string) ([]*types.ServiceRequest, error) {
	keys, err := s.rdb.SMembers(ctx, clientKey(userReference)).Result()
	if err != nil {
		return nil, err
	}
	return s.fetchPage(ctx, keys, p)
}

func (s *RedisStore) CountByStatus(ctx context.Context, status types.RequestStatus) (int64, error) {
	return s.rdb.SCard(ctx, statusKey(status)).Result()
}

func (s *RedisStore) CountAll(ctx context.Context) (int64, error) {
	return s.rdb.ZCard(ctx, keyAll).Result()
}

// fetchPage pages over index-set members. SMembers returns members in
// unspecified order, so the keys are first ordered by their creation
// score in the keyAll index to keep page boundaries stable across calls.
func (s *RedisStore) fetchPage(ctx context.Context, keys []string, p Paging) ([]*types.ServiceRequest, error) {
	ordered, err := s.orderedByCreation(ctx, keys)
	if err != nil {
		return nil, err
	}
	return s.fetchAll(ctx, pageKeys(ordered, p))
}

func (s *RedisStore) orderedByCreation(ctx context.Context, keys []string) ([]string, error) {
	if len(keys) < 2 {
		return keys, nil
	}
	scores, err := s.rdb.ZMScore(ctx, keyAll, keys...).Result()
	if err != nil {
		return nil, err
	}
	return orderByScore(keys, scores), nil
}

// orderByScore sorts member keys ascending by score, ties broken by
// key. Members missing a score sort first.
func orderByScore(keys []string, scores []float64) []string {
	type entry struct {
		key   string
		score float64
	}
	entries := make([]entry, len(keys))
	for i, key := range keys {
		var score float64
		if i < len(scores) {
			score = scores[i]
		}
		entries[i] = entry{key: key, score: score}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score < entries[j].score
		}
		return entries[i].key < entries[j].key
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.key
	}
	return out
}

func pageKeys(keys []string, p Paging) []string {
	start := p.Offset()
	if start >= len(keys) {
		return nil
	}
	end := start + p.Limit()
	if end > len(keys) {
		end = len(keys)
	}
	return keys[start:end]
}

func (s *RedisStore) fetchAll(ctx context.Context, keys []string) ([]*types.ServiceRequest, error) {
	if len(keys) == 0 {
		return []*types.ServiceRequest{}, nil
	}
	raws, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*types.ServiceRequest, 0, len(raws))
	for _, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var doc types.ServiceRequest
		if err := json.Unmarshal([]byte(str), &doc); err != nil {
			s.log.Warn("skipping malformed request document", "error", err)
			continue
		}
		out = append(out, &doc)
	}
	return out, nil
}
