package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:embed templates/invoice.html
var invoiceTemplates embed.FS

var invoiceTmpl = template.Must(template.ParseFS(invoiceTemplates, "templates/invoice.html"))

// PDFPrinter turns an HTML document into PDF bytes.
type PDFPrinter interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// DocumentUploader stores a rendered document and returns its public URL.
type DocumentUploader interface {
	UploadDocument(ctx context.Context, data []byte, publicID string) (string, error)
}

type InvoiceView struct {
	Number         string
	IssuedOn       string
	BookerName     string
	TalentName     string
	EventType      string
	EventDate      string
	Location       string
	Currency       string
	Total          float64
	CommissionRate float64
	Commission     float64
	Earnings       float64
	Status         string
}

func RenderInvoiceHTML(view InvoiceView) (string, error) {
	var rendered bytes.Buffer
	if err := invoiceTmpl.Execute(&rendered, view); err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}
	return rendered.String(), nil
}

// LoadInvoiceView collects what the invoice document shows. Only the booker, the
// talent on the booking or an admin may read it.
func LoadInvoiceView(ctx context.Context, db *gorm.DB, caller Caller, bookingID uuid.UUID) (*InvoiceView, error) {
	var booking models.Booking
	if err := db.WithContext(ctx).First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}

	isTalent := booking.TalentID != nil && *booking.TalentID == caller.ID
	if booking.UserID != caller.ID && !isTalent && !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	var payment models.Payment
	if err := db.WithContext(ctx).
		Where("booking_id = ? AND payment_method = ?", booking.ID, models.PaymentMethodInvoice).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("load payment: %w", err)
	}

	view := &InvoiceView{
		Number:         payment.ID.String()[:8],
		IssuedOn:       payment.CreatedAt.Format("January 2, 2006"),
		BookerName:     displayName(ctx, db, booking.UserID),
		TalentName:     displayName(ctx, db, payment.PayeeID),
		EventType:      booking.EventType,
		EventDate:      booking.EventDate.Format("January 2, 2006"),
		Currency:       payment.Currency,
		Total:          payment.TotalAmount,
		CommissionRate: payment.CommissionRate,
		Commission:     payment.PlatformCommission,
		Earnings:       payment.TalentEarnings,
		Status:         string(payment.PaymentStatus),
	}
	if booking.Location != nil {
		view.Location = *booking.Location
	}
	return view, nil
}

func displayName(ctx context.Context, db *gorm.DB, id uuid.UUID) string {
	var user models.User
	if err := db.WithContext(ctx).Select("id", "full_name").First(&user, "id = ?", id).Error; err != nil || user.FullName == "" {
		return id.String()
	}
	return user.FullName
}

// InvoiceDocument renders, prints and uploads the invoice of a booking.
func InvoiceDocument(ctx context.Context, db *gorm.DB, caller Caller, bookingID uuid.UUID, printer PDFPrinter, store DocumentUploader) (string, error) {
	view, err := LoadInvoiceView(ctx, db, caller, bookingID)
	if err != nil {
		return "", err
	}
	html, err := RenderInvoiceHTML(*view)
	if err != nil {
		return "", err
	}
	pdf, err := printer.PrintPDF(ctx, html)
	if err != nil {
		return "", fmt.Errorf("print invoice: %w", err)
	}
	url, err := store.UploadDocument(ctx, pdf, fmt.Sprintf("invoices/%s_%s", bookingID, uuid.New().String()))
	if err != nil {
		return "", fmt.Errorf("upload invoice: %w", err)
	}
	return url, nil
}

// ChromePrinter prints with a fresh headless Chrome tab per document.
type ChromePrinter struct{}

func (ChromePrinter) PrintPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	cctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(cctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) UploadDocument(ctx context.Context, data []byte, publicID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	uploadResult, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       u.folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return uploadResult.SecureURL, nil
}
