package catalog

import (
	"storefront/domain/catalog"
)

// pictureURL prefixes a stored relative path with the public api url. Empty stays empty.
func pictureURL(apiURL, path string) string {
	if path == "" {
		return ""
	}
	return apiURL + path
}

func toProductResponse(p catalog.Product, apiURL string) ProductResponse {
	photos := make([]PhotoResponse, len(p.Photos))
	for i, ph := range p.Photos {
		photos[i] = PhotoResponse{
			ID:         ph.ID,
			PictureURL: pictureURL(apiURL, ph.PictureURL),
			FileName:   ph.FileName,
			IsMain:     ph.IsMain,
		}
	}

	resp := ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		ProductType:  p.TypeName(),
		ProductBrand: p.BrandName(),
		Photos:       photos,
	}
	if main, ok := p.MainPhoto(); ok {
		resp.PictureURL = pictureURL(apiURL, main.PictureURL)
	}
	return resp
}

func toProductResponses(products []catalog.Product, apiURL string) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p, apiURL)
	}
	return out
}

func applyRequest(p *catalog.Product, req ProductRequest) {
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.ProductTypeID = req.ProductTypeID
	p.ProductBrandID = req.ProductBrandID
}
