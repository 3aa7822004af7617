package checkout

import "campus-preorder/internal/model"

const (
	baseServiceFee int64 = 2500
	perFloorFee    int64 = 200
)

const (
	minFeeFloor = 1
	maxFeeFloor = 9
)

// ServiceFee is charged per order and depends only on the pickup floor.
// Floors outside 1..9 are clamped. No location means no fee.
func ServiceFee(location *model.PickupLocation) int64 {
	if location == nil {
		return 0
	}
	floor := min(max(location.Floor, minFeeFloor), maxFeeFloor)
	return baseServiceFee + int64(floor-1)*perFloorFee
}
