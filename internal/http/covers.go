package http

import (
	"github.com/gin-gonic/gin"

	"github.com/legendarybooks/catalogue/internal/covers"
)

// CoversController serves the cover upload endpoint. Uploads land in the
// staging area; they only become public once the referencing book row has
// been committed.
type CoversController struct {
	store *covers.Store
}

// NewCoversController creates the covers controller.
func NewCoversController(store *covers.Store) *CoversController {
	return &CoversController{store: store}
}

// Upload stages a multipart cover image under its final filename.
func (ctrl *CoversController) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "no file detected")
		return
	}

	if !covers.ValidExtension(file.Filename) {
		respondBadRequest(c, "invalid file type, only png/jpg/jpeg covers are accepted")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondInternalError(c, err, "open cover upload")
		return
	}
	defer src.Close()

	if err := ctrl.store.StagePending(file.Filename, src); err != nil {
		respondInternalError(c, err, "stage cover upload")
		return
	}

	respondSuccess(c, "cover image uploaded", nil)
}
