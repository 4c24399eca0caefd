package utils

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"velorent/src/config"
	"velorent/src/models"
	"velorent/src/types"
)

const adminRemarksMarker = "[admin remarks]:"

// RequestView is a Request joined with the booking fields clients render
// alongside it.
type RequestView struct {
	models.Request
	VehicleName       string    `json:"vehicle_name"`
	CompanyName       string    `json:"company_name"`
	OriginalStartDate time.Time `json:"original_start_date"`
	OriginalEndDate   time.Time `json:"original_end_date"`
	OriginalRentTime  string    `json:"original_rent_time"`
}

// SplitCompanyRemarks splits legacy reason text that packed company remarks
// behind an "[Admin Remarks]:" marker. The marker match is case-insensitive.
// Rows written since the company_remarks column exists pass through with an
// empty second value.
func SplitCompanyRemarks(reason string) (string, string) {
	idx := strings.Index(strings.ToLower(reason), adminRemarksMarker)
	if idx < 0 {
		return strings.TrimSpace(reason), ""
	}
	return strings.TrimSpace(reason[:idx]), strings.TrimSpace(reason[idx+len(adminRemarksMarker):])
}

func viewOf(req models.Request) RequestView {
	view := RequestView{Request: req}
	if req.CompanyRemarks == nil {
		if reason, remarks := SplitCompanyRemarks(req.Reason); remarks != "" {
			view.Reason = reason
			view.CompanyRemarks = &remarks
		}
	}
	if req.Booking != nil {
		view.VehicleName = req.Booking.VehicleName
		view.CompanyName = req.Booking.CompanyName
		view.OriginalStartDate = req.Booking.StartDate
		view.OriginalEndDate = req.Booking.EndDate
		view.OriginalRentTime = req.Booking.RentTime
	}
	return view
}

// CreateRequest validates and records a reschedule or cancellation request
// against one of the user's bookings, computing the applicable fee at
// creation time.
func CreateRequest(db *gorm.DB, userID uint, body *types.CreateRequestRequestBody) (*RequestView, error) {
	requestType := types.RequestType(body.RequestType)
	if requestType != types.REQUEST_RESCHEDULE && requestType != types.REQUEST_CANCELLATION {
		return nil, fmt.Errorf("%w: unknown request type %q", ErrValidation, body.RequestType)
	}

	var booking models.Booking
	err := db.Where(&models.Booking{ID: body.BookingID, UserID: userID}).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, body.BookingID)
		}
		return nil, err
	}
	if booking.Status == types.BOOKING_CANCELLED || booking.Status == types.BOOKING_COMPLETED {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}

	var pending int64
	err = db.Model(&models.Request{}).
		Where(&models.Request{BookingID: booking.ID, Status: types.REQUEST_PENDING}).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: booking %d already has a pending request", ErrConflict, booking.ID)
	}

	request := models.Request{
		UserID:      userID,
		BookingID:   booking.ID,
		RequestType: requestType,
		Status:      types.REQUEST_PENDING,
		Reason:      body.Reason,
		NewRentTime: body.NewRentTime,
	}
	if booking.CompanyID != nil {
		request.CompanyID = *booking.CompanyID
	}

	if requestType == types.REQUEST_RESCHEDULE {
		if body.NewStartDate == nil {
			return nil, fmt.Errorf("%w: reschedule requires a new start date", ErrValidation)
		}
		start, err := time.Parse(config.DATE_PARSE_FORMAT, *body.NewStartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
		request.NewStartDate = &start
		if body.NewEndDate != nil {
			end, err := time.Parse(config.DATE_PARSE_FORMAT, *body.NewEndDate)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
			}
			if end.Before(start) {
				return nil, fmt.Errorf("%w: new end date precedes new start date", ErrValidation)
			}
			request.NewEndDate = &end
		}
	}

	policy, err := ResolvePolicy(db.Statement.Context, db, request.CompanyID)
	if err != nil {
		return nil, err
	}
	if requestType == types.REQUEST_RESCHEDULE && !policy.AllowReschedule {
		return nil, fmt.Errorf("%w: company does not allow reschedules", ErrInvalidState)
	}
	if requestType == types.REQUEST_CANCELLATION && !policy.AllowCancellation {
		return nil, fmt.Errorf("%w: company does not allow cancellations", ErrInvalidState)
	}
	details := ComputeFee(requestType, policy, booking.StartDate, time.Now())
	request.ComputedFee = details.Fee

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return CreateNotification(tx, &models.Notification{
			UserID:           userID,
			Type:             types.NOTIFICATION_REQUEST_UPDATE,
			Message:          fmt.Sprintf("Your %s request for %s (Booking #%d) has been submitted and is pending review.", requestType, booking.VehicleName, booking.ID),
			RelatedRequestID: &request.ID,
			RelatedBookingID: &booking.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	request.Booking = &booking
	view := viewOf(request)
	return &view, nil
}

// ListUserRequests returns the user's requests, newest first.
func ListUserRequests(db *gorm.DB, userID uint) ([]RequestView, error) {
	var requests []models.Request
	err := db.Preload("Booking").
		Where(&models.Request{UserID: userID}).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	views := make([]RequestView, 0, len(requests))
	for _, req := range requests {
		views = append(views, viewOf(req))
	}
	return views, nil
}

func GetUserRequest(db *gorm.DB, userID, requestID uint) (*RequestView, error) {
	var request models.Request
	err := db.Preload("Booking").
		Where(&models.Request{ID: requestID, UserID: userID}).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return nil, err
	}
	view := viewOf(request)
	return &view, nil
}

// DecideRequest approves or rejects a pending request. Approval of a
// reschedule re-syncs the booking's dates; approval of a cancellation
// cancels the booking. The decision, booking side effects and the user
// notification commit atomically.
func DecideRequest(db *gorm.DB, requestID uint, body *types.DecideRequestRequestBody) (*RequestView, error) {
	var request models.Request
	err := db.Preload("Booking").First(&request, requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return nil, err
	}
	if request.Status != types.REQUEST_PENDING {
		return nil, fmt.Errorf("%w: request already %s", ErrInvalidState, request.Status)
	}

	decided := types.RequestStatus(body.Status)
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", request.ID, types.REQUEST_PENDING).
			Updates(map[string]any{
				"status":           decided,
				"company_response": body.CompanyResponse,
				"company_remarks":  body.CompanyRemarks,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: request already decided", ErrInvalidState)
		}

		if decided == types.REQUEST_APPROVED {
			switch request.RequestType {
			case types.REQUEST_RESCHEDULE:
				if err := syncBooking(tx, request.BookingID); err != nil {
					return err
				}
			case types.REQUEST_CANCELLATION:
				err := tx.Model(&models.Booking{}).
					Where("id = ?", request.BookingID).
					Update("status", types.BOOKING_CANCELLED).Error
				if err != nil {
					return err
				}
			}
		}

		verb := "approved"
		if decided == types.REQUEST_REJECTED {
			verb = "rejected"
		}
		return CreateNotification(tx, &models.Notification{
			UserID:           request.UserID,
			Type:             types.NOTIFICATION_REQUEST_UPDATE,
			Message:          fmt.Sprintf("Your %s request for Booking #%d has been %s.", request.RequestType, request.BookingID, verb),
			RelatedRequestID: &request.ID,
			RelatedBookingID: &request.BookingID,
		})
	})
	if err != nil {
		return nil, err
	}

	return GetUserRequest(db, request.UserID, request.ID)
}

// DeleteRequest removes a single decided request owned by userID. Pending
// requests must be decided first.
func DeleteRequest(db *gorm.DB, userID, requestID uint) error {
	var request models.Request
	err := db.Where(&models.Request{ID: requestID, UserID: userID}).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return err
	}
	if request.Status == types.REQUEST_PENDING {
		return fmt.Errorf("%w: pending requests cannot be deleted", ErrInvalidState)
	}
	return db.Delete(&models.Request{}, request.ID).Error
}

// DeleteRequests removes a batch of decided requests owned by userID and
// returns how many were deleted. Ids that match nothing are skipped; the
// batch is not found only when no id matches. Any pending id in the batch
// blocks the whole delete and the offending ids are reported.
func DeleteRequests(db *gorm.DB, userID uint, requestIDs []uint) (int64, error) {
	var requests []models.Request
	err := db.Where("user_id = ? AND id IN ?", userID, requestIDs).Find(&requests).Error
	if err != nil {
		return 0, err
	}
	if len(requests) == 0 {
		return 0, fmt.Errorf("%w: no matching requests", ErrNotFound)
	}

	var offending []uint
	ids := make([]uint, 0, len(requests))
	for _, req := range requests {
		if req.Status == types.REQUEST_PENDING {
			offending = append(offending, req.ID)
		}
		ids = append(ids, req.ID)
	}
	if len(offending) > 0 {
		return 0, &PendingDeleteError{PendingIDs: offending}
	}

	result := db.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.Request{})
	if result.Error != nil {
		return 0, result.Error
	}
	if int(result.RowsAffected) != len(requestIDs) {
		log.Printf("bulk delete removed %d of %d requests for user %d\n", result.RowsAffected, len(requestIDs), userID)
	}
	return result.RowsAffected, nil
}

// PreviewFee computes the fee a request would carry today without creating
// anything.
func PreviewFee(db *gorm.DB, userID uint, body *types.ComputeFeeRequestBody) (*FeeDetails, *models.Policy, error) {
	requestType := types.RequestType(body.RequestType)
	if requestType != types.REQUEST_RESCHEDULE && requestType != types.REQUEST_CANCELLATION {
		return nil, nil, fmt.Errorf("%w: unknown request type %q", ErrValidation, body.RequestType)
	}

	var booking models.Booking
	err := db.Where(&models.Booking{ID: body.BookingID, UserID: userID}).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: booking %d", ErrNotFound, body.BookingID)
		}
		return nil, nil, err
	}

	var companyID uint
	if booking.CompanyID != nil {
		companyID = *booking.CompanyID
	}
	policy, err := ResolvePolicy(db.Statement.Context, db, companyID)
	if err != nil {
		return nil, nil, err
	}
	details := ComputeFee(requestType, policy, booking.StartDate, time.Now())
	return &details, &policy, nil
}
