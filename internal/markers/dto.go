package markers

type addMarkerRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Value string `json:"value" form:"value" binding:"required"`
}

type updateMarkerRequest struct {
	Value string `json:"value" form:"value" binding:"required"`
	Date  string `json:"date" form:"date" binding:"required"`
}
