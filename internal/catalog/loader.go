package catalog

import (
	"bytes"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/stylehub/storefront/internal/domain/catalog"
)

// Load decompresses and decodes the embedded catalog.
func Load() ([]catalog.Product, error) {
	r, err := pgzip.NewReader(bytes.NewReader(packed))
	if err != nil {
		return nil, errors.Wrap(err, "open packed catalog")
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "decompress catalog")
	}

	return Decode(raw)
}

// Decode parses a JSON array of products.
func Decode(raw []byte) ([]catalog.Product, error) {
	var products []catalog.Product

	d := jx.DecodeBytes(raw)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	return products, nil
}

func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	var p catalog.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "price":
			p.Price, err = decodeDecimal(d)
		case "discountPrice":
			var dp decimal.Decimal
			dp, err = decodeDecimal(d)
			if err == nil {
				p.DiscountPrice = &dp
			}
		case "category":
			p.Category, err = d.Str()
		case "colors":
			p.Colors, err = decodeStrings(d)
		case "sizes":
			p.Sizes, err = decodeStrings(d)
		case "images":
			p.Images, err = decodeStrings(d)
		case "inStock":
			p.InStock, err = d.Bool()
		case "featured":
			p.Featured, err = d.Bool()
		case "rating":
			p.Rating, err = d.Float64()
		case "reviews":
			p.Reviews, err = d.Int()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	if err != nil {
		return p, err
	}
	if p.ID == "" {
		return p, errors.New("product missing id")
	}
	if len(p.Images) == 0 {
		return p, errors.Errorf("product %s: images must not be empty", p.ID)
	}
	return p, nil
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(n.String())
}

func decodeStrings(d *jx.Decoder) ([]string, error) {
	var out []string
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}
