package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateGigInput struct {
	Title     string
	EventType string
	EventDate time.Time
	Budget    float64
	Currency  string
}

func CreateGig(ctx context.Context, db *gorm.DB, caller Caller, in CreateGigInput) (*models.Gig, error) {
	gig := models.Gig{
		BookerID:  caller.ID,
		Title:     in.Title,
		EventType: in.EventType,
		EventDate: in.EventDate,
		Budget:    in.Budget,
		Currency:  in.Currency,
		Status:    models.GigOpen,
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&gig).Error; err != nil {
			return fmt.Errorf("create gig: %w", err)
		}
		var out Outbox
		if err := out.Insert(workflow.TableGigs, gig); err != nil {
			return err
		}
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

func ListOpenGigs(ctx context.Context, db *gorm.DB, now time.Time) ([]models.Gig, error) {
	var gigs []models.Gig
	if err := db.WithContext(ctx).
		Where("status = ? AND event_date >= ?", models.GigOpen, now).
		Order("event_date ASC").
		Find(&gigs).Error; err != nil {
		return nil, fmt.Errorf("list gigs: %w", err)
	}
	return gigs, nil
}

func ApplyToGig(ctx context.Context, db *gorm.DB, caller Caller, gigID uuid.UUID) (*models.GigApplication, error) {
	var app models.GigApplication
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var gig models.Gig
		if err := tx.First(&gig, "id = ?", gigID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGigNotFound
			}
			return fmt.Errorf("load gig: %w", err)
		}
		if gig.Status != models.GigOpen {
			return ErrGigClosed
		}

		var count int64
		if err := tx.Model(&models.GigApplication{}).
			Where("gig_id = ? AND talent_id = ?", gigID, caller.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check application: %w", err)
		}
		if count > 0 {
			return ErrAlreadyApplied
		}

		app = models.GigApplication{
			GigID:    gig.ID,
			BookerID: gig.BookerID,
			TalentID: caller.ID,
			Status:   models.GigApplicationInterested,
		}
		if err := tx.Create(&app).Error; err != nil {
			return fmt.Errorf("create application: %w", err)
		}

		var out Outbox
		if err := out.Insert(workflow.TableGigApplications, app); err != nil {
			return err
		}
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

type ApplicationUpdate struct {
	Status        models.GigApplicationStatus
	ProposedPrice *float64
	Currency      *string
}

type ApplicationResult struct {
	Application   models.GigApplication
	Notifications []models.Notification
}

// UpdateApplicationStatus moves a gig application along its workflow. The talent sends
// an invoice; the gig's booker confirms it, sends it back to interested or declines.
// Confirming an application closes the gig.
func UpdateApplicationStatus(ctx context.Context, db *gorm.DB, caller Caller, applicationID uuid.UUID, upd ApplicationUpdate) (*ApplicationResult, error) {
	var result ApplicationResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.GigApplication
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&app, "id = ?", applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return fmt.Errorf("load application: %w", err)
		}
		if err := authorizeApplicationTransition(caller, app, upd.Status); err != nil {
			return err
		}
		if !app.Status.CanTransitionTo(upd.Status) {
			return fmt.Errorf("%s -> %s: %w", app.Status, upd.Status, ErrInvalidTransition)
		}
		if app.Status == upd.Status {
			result.Application = app
			return nil
		}
		if upd.Status == models.GigApplicationInvoiceSent && (upd.ProposedPrice == nil || *upd.ProposedPrice <= 0) {
			return ErrInvalidPrice
		}

		old := app
		updates := map[string]interface{}{"status": upd.Status}
		app.Status = upd.Status
		if upd.Status == models.GigApplicationInvoiceSent {
			updates["proposed_price"] = *upd.ProposedPrice
			app.ProposedPrice = upd.ProposedPrice
			if upd.Currency != nil {
				updates["currency"] = *upd.Currency
				app.Currency = upd.Currency
			}
		}
		if err := tx.Model(&app).Updates(updates).Error; err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		var out Outbox
		if err := out.Update(workflow.TableGigApplications, app, old); err != nil {
			return err
		}

		if app.Status == models.GigApplicationConfirmed {
			var gig models.Gig
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&gig, "id = ?", app.GigID).Error; err != nil {
				return fmt.Errorf("load gig: %w", err)
			}
			if gig.Status != models.GigClosed {
				oldGig := gig
				gig.Status = models.GigClosed
				if err := tx.Model(&gig).Update("status", models.GigClosed).Error; err != nil {
					return fmt.Errorf("close gig: %w", err)
				}
				if err := out.Update(workflow.TableGigs, gig, oldGig); err != nil {
					return err
				}
			}
		}

		for _, n := range applicationNotifications(old, app) {
			if err := createNotification(tx, &out, &n); err != nil {
				return err
			}
			result.Notifications = append(result.Notifications, n)
		}
		result.Application = app
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func authorizeApplicationTransition(caller Caller, app models.GigApplication, next models.GigApplicationStatus) error {
	if caller.IsAdmin() {
		return nil
	}
	switch next {
	case models.GigApplicationInvoiceSent:
		if app.TalentID == caller.ID {
			return nil
		}
	case models.GigApplicationConfirmed, models.GigApplicationInterested, models.GigApplicationDeclined:
		if app.BookerID == caller.ID {
			return nil
		}
	}
	return ErrForbidden
}

func applicationNotifications(old, next models.GigApplication) []models.Notification {
	switch {
	case next.Status == models.GigApplicationInvoiceSent:
		return []models.Notification{newNotification(next.BookerID, models.NotificationInvoiceReceived, workflow.TitleInvoiceReceived,
			"A talent sent you an invoice for your gig.", nil)}
	case next.Status == models.GigApplicationConfirmed:
		return []models.Notification{newNotification(next.TalentID, models.NotificationGigConfirmed, workflow.TitleGigConfirmed,
			"Your gig application has been confirmed.", nil)}
	case next.Status == models.GigApplicationInterested && old.Status == models.GigApplicationInvoiceSent:
		return []models.Notification{newNotification(next.TalentID, models.NotificationInvoiceDeclined, workflow.TitleInvoiceDeclined,
			"Your invoice for the gig was declined.", nil)}
	case next.Status == models.GigApplicationDeclined:
		return []models.Notification{newNotification(next.TalentID, models.NotificationApplicationUpdate, "Application Declined",
			"Your gig application was declined.", nil)}
	}
	return nil
}
