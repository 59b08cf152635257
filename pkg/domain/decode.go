package domain

import (
	"fmt"
	"reflect"

	"github.com/aretw0/savestate/pkg/document"
	"github.com/mitchellh/mapstructure"
)

// decodeAttributes fills target from the document's attributes.
// Document text is weakly typed: "yes"/"no" are booleans and comma lists are slices.
// Malformed numbers and booleans leave the target's preset value in place, so a bad
// attribute never rejects a save.
func decodeAttributes(doc *document.Config, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			lenientHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(doc.AttributeMap()); err != nil {
		return fmt.Errorf("failed to decode attributes: %w", err)
	}
	return nil
}

func lenientHook(from, to reflect.Value) (any, error) {
	if from.Kind() != reflect.String {
		return from.Interface(), nil
	}
	v := document.Value(from.String())
	switch to.Kind() {
	case reflect.Bool:
		return v.Bool(to.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(int(to.Int())), nil
	}
	return from.Interface(), nil
}
