package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// NullableInt 區分三種狀態：未提供、明確為 null、有值
type NullableInt struct {
	Set   bool
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// UnmarshalParam 供 form 綁定使用，空字串視為 null
func (n *NullableInt) UnmarshalParam(param string) error {
	n.Set = true
	if param == "" || param == "null" {
		n.Value = nil
		return nil
	}
	v, err := strconv.Atoi(param)
	if err != nil {
		return err
	}
	n.Value = &v
	return nil
}
