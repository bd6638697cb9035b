package quest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewVoucherCode composes an opaque voucher code from a short quest
// tag, a base36 timestamp and a random component. Uniqueness is
// best-effort: redemption is manual, store-side verification, not a
// security boundary.
func NewVoucherCode(q *Quest) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := uuid.NewString()[:8]
	return strings.ToUpper(fmt.Sprintf("SQ-W%d-%s-%s", q.WeekNumber, ts, random))
}
