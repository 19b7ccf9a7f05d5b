package interfaces

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type pathParamKey string

var pathEntities = map[string]string{
	"walletID":   "Wallet",
	"pocketID":   "Pocket",
	"cardID":     "Credit card",
	"categoryID": "Category",
}

// ValidatePathParams parses each named path parameter as a UUID and stores it
// in the request context. A malformed id cannot name an existing entity, so it
// is answered like a missing one.
func (h responder) ValidatePathParams(next http.Handler, params ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, param := range params {
			paramValue := r.PathValue(param)
			if paramValue == "" {
				h.respondError(w, http.StatusBadRequest, capitalizeFirstLetter(fmt.Sprintf("%s is required", param)))
				return
			}

			parsedUUID, err := uuid.Parse(paramValue)
			if err != nil {
				h.logger.Debug("Invalid path parameter", "param", param, "value", paramValue)
				if entity, ok := pathEntities[param]; ok {
					h.respondError(w, http.StatusNotFound, entity+" not found")
					return
				}
				h.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", param))
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), pathParamKey(param), parsedUUID))
		}
		next.ServeHTTP(w, r)
	})
}

// pathID returns the parameter stored by ValidatePathParams, or uuid.Nil.
func pathID(r *http.Request, param string) uuid.UUID {
	id, _ := r.Context().Value(pathParamKey(param)).(uuid.UUID)
	return id
}
