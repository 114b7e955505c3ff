package halls

type CreateHallRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=255"`
	Rows       int    `json:"rows" binding:"required,min=1,max=500"`
	SeatsInRow int    `json:"seats_in_row" binding:"required,min=1,max=500"`
}
