package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexBool accepts true/false, 1/0 and their quoted forms as well as
// "yes"/"no" and "on"/"off".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*b = FlexBool(v)
	case float64:
		*b = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			*b = true
		case "false", "0", "no", "off", "":
			*b = false
		default:
			return fmt.Errorf("invalid boolean %q", v)
		}
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}
