package branding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// Source は自治体プロファイルの参照元です。
type Source interface {
	// Lookup は正規化済みの識別子でプロファイルを引きます。
	// 不在は ok=false で表し、err は参照元自体の障害にのみ使います。
	Lookup(ctx context.Context, id string) (domain.MunicipalBrandingProfile, bool, error)
}

// StaticSource はメモリ上の表を参照する Source です。
type StaticSource struct {
	table map[string]domain.MunicipalBrandingProfile
}

// NewStaticSource は表の複製を持つ StaticSource を作成します。
func NewStaticSource(table map[string]domain.MunicipalBrandingProfile) *StaticSource {
	copied := make(map[string]domain.MunicipalBrandingProfile, len(table))
	for k, v := range table {
		copied[k] = v
	}
	return &StaticSource{table: copied}
}

func (s *StaticSource) Lookup(_ context.Context, id string) (domain.MunicipalBrandingProfile, bool, error) {
	p, ok := s.table[id]
	return p, ok, nil
}

// LoadProfiles は JSON のプロファイル表を読み込みます。
// パスはローカルファイルと "gs://" の両方を受け付けます。
func LoadProfiles(ctx context.Context, reader remoteio.InputReader, path string) (map[string]domain.MunicipalBrandingProfile, error) {
	rc, err := reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open branding profiles %q: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read branding profiles %q: %w", path, err)
	}

	var profiles []domain.MunicipalBrandingProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode branding profiles %q: %w", path, err)
	}

	table := make(map[string]domain.MunicipalBrandingProfile, len(profiles))
	for _, p := range profiles {
		key := Normalize(p.Municipality)
		if key == "" {
			return nil, fmt.Errorf("branding profiles %q: entry without municipality", path)
		}
		p.Municipality = key
		table[key] = p
	}
	return table, nil
}

// RedisSource は Redis 上のプロファイル登録簿を参照する Source です。
// 取得結果はプロセス内にキャッシュします。登録簿は参照データで更新が稀なためです。
type RedisSource struct {
	rdb      *redis.Client
	nsPrefix string
	timeout  time.Duration
	memCache sync.Map
}

// RedisOpts は RedisSource の接続設定です。
type RedisOpts struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
	Timeout   time.Duration
}

// NewRedisSource は登録簿への接続を初期化します。
func NewRedisSource(opts RedisOpts) *RedisSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "branding"
	}

	return &RedisSource{
		rdb: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		nsPrefix: namespace,
		timeout:  opts.Timeout,
	}
}

func (s *RedisSource) Lookup(ctx context.Context, id string) (domain.MunicipalBrandingProfile, bool, error) {
	key := fmt.Sprintf("%s:%s", s.nsPrefix, id)

	if v, ok := s.memCache.Load(key); ok {
		return v.(domain.MunicipalBrandingProfile), true, nil
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	val, err := s.rdb.Get(cctx, key).Bytes()
	if err == redis.Nil {
		return domain.MunicipalBrandingProfile{}, false, nil
	}
	if err != nil {
		return domain.MunicipalBrandingProfile{}, false, fmt.Errorf("failed to fetch branding profile (%s): %w", key, err)
	}

	var p domain.MunicipalBrandingProfile
	if err := json.Unmarshal(val, &p); err != nil {
		return domain.MunicipalBrandingProfile{}, false, fmt.Errorf("corrupt branding profile (%s): %w", key, err)
	}
	p.Municipality = id

	s.memCache.Store(key, p)
	return p, true, nil
}

// Close は Redis への接続を解放します。
func (s *RedisSource) Close() error {
	return s.rdb.Close()
}
