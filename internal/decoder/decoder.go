package decoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Item is single raw element of decoded items array.
type Item struct {
	Index int
	Raw   json.RawMessage
}

// Decoder decodes JSON provider responses holding an array of items.
type Decoder struct{}

// Decode reads JSON object from r and passes every element of array under field into output channel.
// Other top-level fields are returned raw, e.g. pagination data.
// Missing or null field produces no items.
func (d Decoder) Decode(
	ctx context.Context,
	r io.Reader,
	field string,
	output chan<- Item,
) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(r)
	rest := map[string]json.RawMessage{}

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v, want object key", token)
		}

		if key != field {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, err
			}
			rest[key] = raw
			continue
		}

		if err := decodeItems(ctx, dec, output); err != nil {
			return nil, err
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return rest, nil
}

func decodeItems(ctx context.Context, dec *json.Decoder, output chan<- Item) error {
	token, err := dec.Token()
	if err != nil {
		return err
	}

	if token == nil {
		return nil
	}

	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("unexpected token %v, want array", token)
	}

	for ix := 0; dec.More(); ix++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case output <- Item{Index: ix, Raw: raw}:
		}
	}

	return expectDelim(dec, ']')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	token, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := token.(json.Delim); !ok || delim != want {
		return fmt.Errorf("unexpected token %v, want %s", token, want)
	}

	return nil
}
