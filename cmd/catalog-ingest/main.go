// Command catalog-ingest merges raw product feed files into the static
// catalog document served by catalog-server.
//
// Feeds are JSON lines, one product object per line, plain or
// gzip-compressed. Feeds are read concurrently; duplicate ids collapse to
// the first occurrence in feed argument order.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/product"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	maxLineBytes  = 1 << 20
)

// feedResult holds one feed's valid products plus a bloom filter over their
// ids, used as a cross-feed duplicate prefilter during the merge.
type feedResult struct {
	products []product.Product
	ids      *bloom.BloomFilter
}

func main() {
	var out string
	flag.StringVar(&out, "out", "products.json", "merged catalog output path")
	flag.Parse()

	feeds := flag.Args()
	if len(feeds) == 0 {
		slog.Error("at least one feed file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, feeds, out); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, feeds []string, out string) error {
	for _, f := range feeds {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check feed %s", f)
		}
	}

	slog.Info("reading feeds", slog.Int("feeds", len(feeds)))

	results := make([]feedResult, len(feeds))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range feeds {
		g.Go(readFeed(gctx, i, f, results))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged := mergeFeeds(results)
	if len(merged) == 0 {
		return errors.New("no valid products in any feed")
	}
	slices.SortFunc(merged, func(a, b product.Product) int {
		return int(a.ID - b.ID)
	})

	if err := os.WriteFile(out, append(catalog.Encode(merged), '\n'), 0o644); err != nil {
		return errors.Wrap(err, "write catalog")
	}

	slog.Info("catalog written", slog.String("path", out), slog.Int("products", len(merged)))
	return nil
}

// readFeed streams one feed, dropping malformed lines, invalid products, and
// duplicates within the feed itself.
func readFeed(ctx context.Context, idx int, path string, results []feedResult) func() error {
	return func() error {
		ids := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		seen := make(map[int64]struct{})
		var products []product.Product
		var malformed, invalid, dups int

		if err := streamLines(ctx, path, func(line []byte) {
			p, err := catalog.DecodeProduct(jx.DecodeBytes(line))
			if err != nil {
				malformed++
				return
			}
			if p.Name == "" || !p.Price.IsPositive() {
				invalid++
				return
			}
			if _, dup := seen[p.ID]; dup {
				dups++
				return
			}
			seen[p.ID] = struct{}{}
			ids.AddString(strconv.FormatInt(p.ID, 10))
			products = append(products, p)
		}); err != nil {
			return errors.Wrapf(err, "read feed %s", path)
		}

		slog.Info("feed read",
			slog.String("feed", path),
			slog.Int("products", len(products)),
			slog.Int("malformed", malformed),
			slog.Int("invalid", invalid),
			slog.Int("duplicates", dups),
		)

		results[idx] = feedResult{products: products, ids: ids}
		return nil
	}
}

// mergeFeeds concatenates the feeds, collapsing cross-feed duplicate ids to
// the first occurrence. A bloom miss on every earlier feed proves an id is
// new and skips the exact check; a hit may be a false positive, so the id
// map decides.
func mergeFeeds(results []feedResult) []product.Product {
	seen := make(map[int64]struct{})
	var merged []product.Product
	var dups int

	for i, r := range results {
		for _, p := range r.products {
			key := strconv.FormatInt(p.ID, 10)
			maybe := false
			for j := range i {
				if results[j].ids.TestString(key) {
					maybe = true
					break
				}
			}
			if maybe {
				if _, dup := seen[p.ID]; dup {
					dups++
					continue
				}
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}

	if dups > 0 {
		slog.Info("cross-feed duplicates collapsed", slog.Int("count", dups))
	}
	return merged
}

// streamLines calls fn for every non-blank line of path, transparently
// decompressing .gz feeds.
func streamLines(ctx context.Context, path string, fn func(line []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var scanner *bufio.Scanner
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		scanner = bufio.NewScanner(gz)
	} else {
		scanner = bufio.NewScanner(f)
	}
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fn([]byte(line))
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}
