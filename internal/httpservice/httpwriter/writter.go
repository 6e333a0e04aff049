package httpwriter

import (
	"encoding/json"
	"net/http"
)

type Writer interface {
	WriteError(w http.ResponseWriter, err error, status int)
	WriteSuccess(w http.ResponseWriter, message string, data interface{})
}

type JSONResponseWriter struct{}

type Response struct {
	Code    int               `json:"-"`
	Headers map[string]string `json:"-"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
}

func NewJSONResponseWriter() JSONResponseWriter {
	return JSONResponseWriter{}
}

func (w *JSONResponseWriter) WriteError(rw http.ResponseWriter, err error, status int) {
	response := Response{
		Code:    status,
		Message: err.Error(),
	}

	w.write(rw, response)
}

func (w *JSONResponseWriter) WriteSuccess(rw http.ResponseWriter, message string, data interface{}) {
	response := Response{}
	if message != "" {
		response.Message = message
	} else {
		response.Message = "success"
	}

	if data != nil {
		response.Data = data
	}

	response.Code = http.StatusOK

	w.write(rw, response)
}

func (w *JSONResponseWriter) write(rw http.ResponseWriter, r Response) {
	body, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}

	rw.Header().Add("Content-Type", "application/json")

	for k, v := range r.Headers {
		rw.Header().Add(k, v)
	}

	rw.WriteHeader(r.Code)

	if _, err := rw.Write(body); err != nil {
		panic(err)
	}
}
