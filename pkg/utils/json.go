package utils

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PrettyJson serializa o valor com indentação. Usado apenas em logs de debug,
// então falhas de serialização viram uma string vazia.
func PrettyJson(in any) string {
	if raw, ok := in.([]byte); ok {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return string(raw)
		}
		in = v
	}

	out, err := json.MarshalIndent(in, "", "\t")
	if err != nil {
		return ""
	}

	return string(out)
}

// Truncate limita o tamanho de uma string para inclusão em logs e erros
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
