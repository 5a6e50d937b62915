package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apicatalog "github.com/weftml/weft/pkg/api/types/catalog"
	"github.com/weftml/weft/pkg/domain"
)

// GetCatalogHandler serves what the server accepts: model types, their
// variants, dataset formats and the default training parameters.
func GetCatalogHandler(catalog domain.ModelCatalog, defaults domain.TrainingDefaults) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, apicatalog.Compose(catalog, defaults))
	}
}
