package booking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// deriveIdempotencyKey maps a logical booking request to a stable key, so
// retries of the same request share one idempotency entry. Requests carrying a
// client request id are keyed on it directly. Without one, requests from the
// same user for the same event and ticket count collapse into a single logical
// request per time bucket.
func deriveIdempotencyKey(userID, eventID uuid.UUID, clientRequestID string, numberOfTickets int, now time.Time, bucket time.Duration) string {
	h := sha256.New()
	if clientRequestID != "" {
		fmt.Fprintf(h, "%s|%s|%s", userID, eventID, clientRequestID)
	} else {
		fmt.Fprintf(h, "%s|%s|%d|%d", userID, eventID, numberOfTickets, now.UTC().Truncate(bucket).Unix())
	}

	return hex.EncodeToString(h.Sum(nil))
}
