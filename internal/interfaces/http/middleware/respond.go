package middleware

import (
	"encoding/json"
	"net/http"
)

func writeBody(w http.ResponseWriter, body any) {
	_ = json.NewEncoder(w).Encode(body)
}
