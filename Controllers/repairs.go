package Controllers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"time"

	"Fixit/Constants"
	"Fixit/Repairs"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
)

// maxPhotoWidth is the width stored photos are downscaled to; customer
// phone uploads routinely arrive at 4000px+.
const maxPhotoWidth = 1600

// thumbWidth is the dashboard preview size.
const thumbWidth = 320

type RepairController struct {
	Service *Repairs.Service
}

func NewRepairController(service *Repairs.Service) *RepairController {
	return &RepairController{Service: service}
}

// RenderForm serves the public repair request form.
func (rc *RepairController) RenderForm(c *fiber.Ctx) error {
	return c.Render("repair-form", fiber.Map{})
}

// RenderDashboard serves the operator dashboard page.
func (rc *RepairController) RenderDashboard(c *fiber.Ctx) error {
	return c.Render("dashboard", fiber.Map{})
}

// RenderLogin serves the login page.
func (rc *RepairController) RenderLogin(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{})
}

// SubmitRepair handles the public form submission, including the optional
// photo upload. The customer gets a success response as soon as the request
// is saved; notification delivery happens in the background.
func (rc *RepairController) SubmitRepair(c *fiber.Ctx) error {
	input := Repairs.SubmitInput{
		Name:    c.FormValue("name"),
		Contact: c.FormValue("contact"),
		Device:  c.FormValue("device"),
		Issue:   c.FormValue("issue"),
		Method:  c.FormValue("method"),
	}

	photo := ""
	if file, err := c.FormFile("photo"); err == nil && file != nil {
		stored, err := rc.savePhoto(c, file)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Upload failed",
				"message": "Could not save the attached photo.",
			})
		}
		photo = stored
	}

	repair, err := rc.Service.Submit(input, photo)
	if err != nil {
		var verr *Repairs.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Validation failed",
				"message": verr.Messages,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Could not save your request",
			"message": err.Error(),
		})
	}

	if wantsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(repair)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(fmt.Sprintf(
		"<h2>Thanks %s! Your %s repair request has been received.</h2>",
		repair.Name, repair.Device))
}

// GetRepairs returns the full ledger for the dashboard.
func (rc *RepairController) GetRepairs(c *fiber.Ctx) error {
	repairs, err := rc.Service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load repair requests.",
		})
	}
	return c.JSON(repairs)
}

// CompleteRepair marks a request as completed.
func (rc *RepairController) CompleteRepair(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	if err := rc.Service.Complete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "success"})
}

// SetQuote sets the quoted price on a request.
func (rc *RepairController) SetQuote(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	if err := rc.Service.SetQuote(id, c.FormValue("quote")); err != nil {
		if errors.Is(err, Repairs.ErrInvalidQuote) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid quote",
				"message": "Quote must be a number.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "success"})
}

// DeleteRepair removes a request and its stored photo.
func (rc *RepairController) DeleteRepair(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	if err := rc.Service.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "success"})
}

// savePhoto stores the upload under the managed uploads directory, downscales
// oversized images and writes a dashboard thumbnail. Post-processing is
// best-effort: if the file is not a decodable image it is kept as uploaded.
func (rc *RepairController) savePhoto(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
	path := filepath.Join(Constants.UploadsDir, filename)

	if err := c.SaveFile(file, path); err != nil {
		return "", err
	}

	if img, err := imaging.Open(path, imaging.AutoOrientation(true)); err == nil {
		if img.Bounds().Dx() > maxPhotoWidth {
			img = imaging.Resize(img, maxPhotoWidth, 0, imaging.Lanczos)
			if err := imaging.Save(img, path); err != nil {
				log.Printf("Failed to downscale photo %s: %v", filename, err)
			}
		}
		thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
		thumbPath := filepath.Join(Constants.UploadsDir, "thumb_"+filename)
		if err := imaging.Save(thumb, thumbPath); err != nil {
			log.Printf("Failed to write thumbnail for %s: %v", filename, err)
		}
	} else {
		log.Printf("Skipping photo post-processing for %s: %v", filename, err)
	}

	return "/uploads/" + filename, nil
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
