// Package catalog loads the static product catalog and serves it from memory.
//
// The catalog is read exactly once at startup, either from an HTTP URL or a
// local file. A failed load is reported to the diagnostic logger and leaves
// the catalog empty; there is no retry and no partial-result handling.
package catalog

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
)

// Load performs the one-time catalog read from source and returns the loaded
// repository. Any failure (network, I/O, parse) is logged and an empty
// repository is returned so the caller renders an empty catalog instead of
// failing.
func Load(ctx context.Context, lg *zap.Logger, source string) *Memory {
	data, err := Fetch(ctx, source)
	if err != nil {
		lg.Error("loading catalog", zap.String("source", source), zap.Error(err))
		return NewMemory(nil)
	}

	products, err := Parse(data)
	if err != nil {
		lg.Error("parsing catalog", zap.String("source", source), zap.Error(err))
		return NewMemory(nil)
	}

	lg.Info("catalog loaded", zap.String("source", source), zap.Int("products", len(products)))
	return NewMemory(products)
}

// Fetch reads the raw catalog document from an http(s) URL or a file path.
func Fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, errors.Wrap(err, "build request")
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, errors.Wrap(err, "fetch catalog")
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, errors.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "read catalog body")
		}
		return data, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}
	return data, nil
}

// Parse decodes a JSON array of products. A duplicate id or a negative price
// makes the whole document invalid: the catalog is trusted static data, and a
// broken document is treated as a failed load rather than filtered.
func Parse(data []byte) ([]product.Product, error) {
	var products []product.Product
	seen := make(map[int64]struct{})

	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := DecodeProduct(d)
		if err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return errors.Errorf("duplicate product id %d", p.ID)
		}
		if p.Price.IsNegative() {
			return errors.Errorf("product %d: negative price %s", p.ID, p.Price)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	return products, nil
}

// DecodeProduct decodes one product object. Unknown fields are skipped.
func DecodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Int64()
		case "name":
			p.Name, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "price":
			var n jx.Num
			if n, err = d.Num(); err == nil {
				p.Price, err = decimal.NewFromString(n.String())
			}
		case "image":
			p.Image, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return p, errors.Wrap(err, "decode product")
	}
	return p, nil
}

// Encode writes products back out as the catalog JSON document. It is the
// inverse of Parse and is shared by the catalog server and the ingest tool.
func Encode(products []product.Product) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, p := range products {
		EncodeProduct(&e, p)
	}
	e.ArrEnd()
	return e.Bytes()
}

// EncodeProduct writes a single product object to e.
func EncodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("price")
	e.Raw(jx.Raw(p.Price.String()))
	e.FieldStart("image")
	e.Str(p.Image)
	e.ObjEnd()
}
