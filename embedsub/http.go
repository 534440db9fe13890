package embedsub

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nasa-jpl/subframe/generichttp"
	"github.com/nasa-jpl/subframe/product"
	"github.com/nasa-jpl/subframe/sub2full"
)

// FilesT is the body of an embed request
type FilesT struct {
	Files []string `json:"files"`
}

// EmbeddedT is the reply to an embed request
type EmbeddedT struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped"`
}

// HTTPStatus maps embedding errors to HTTP status codes
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, product.ErrDestinationExists):
		return http.StatusConflict
	case errors.Is(err, ErrShapeMismatch):
		return http.StatusUnprocessableEntity
	}
	return sub2full.HTTPStatus(err)
}

// HTTPEmbed adds POST /embedsub to table.  File names in the request are
// relative to root; outputs are written next to their inputs.
func HTTPEmbed(table generichttp.RouteTable, root string, b Batch) {
	table[generichttp.MethodPath{Method: http.MethodPost, Path: "/embedsub"}] = EmbedHandler(root, b)
}

// EmbedHandler returns the handler behind HTTPEmbed
func EmbedHandler(root string, b Batch) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := FilesT{}
		err := json.NewDecoder(r.Body).Decode(&req)
		defer r.Body.Close()
		if err != nil {
			generichttp.ReplyError(w, http.StatusBadRequest, err)
			return
		}
		names := make([]string, len(req.Files))
		for i, f := range req.Files {
			names[i] = sub2full.InRoot(root, f)
		}
		results, err := b.Run(r.Context(), names...)
		if err != nil {
			generichttp.ReplyError(w, HTTPStatus(err), err)
			return
		}
		out := EmbeddedT{Written: []string{}, Skipped: []string{}}
		for _, res := range results {
			if res.Skipped {
				out.Skipped = append(out.Skipped, res.Input)
			} else {
				out.Written = append(out.Written, res.Output)
			}
		}
		generichttp.Reply(w, http.StatusOK, out)
	}
}
