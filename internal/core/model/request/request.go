package request

type CreateUsuarioRequest struct {
	Name          string `json:"name" validate:"required,min=3,max=100"`
	BirthDate     string `json:"birth_date" validate:"required,datetime=2006-01-02,pastdate"`
	Document      string `json:"document" validate:"required,len=11,numeric"`
	Zip           string `json:"zip" validate:"required,len=8,numeric"`
	AddressNumber int    `json:"address_number" validate:"required"`
}

type UpdateNameRequest struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"name" validate:"omitempty,min=3,max=100"`
}

type UpdateBirthDateRequest struct {
	ID        int64  `json:"id" validate:"required"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02,pastdate"`
}

type UpdateDocumentRequest struct {
	ID       int64  `json:"id" validate:"required"`
	Document string `json:"document" validate:"omitempty,len=11,numeric"`
}

type UpdateAddressRequest struct {
	ID            int64  `json:"id" validate:"required"`
	Zip           string `json:"zip" validate:"required,len=8,numeric"`
	AddressNumber int    `json:"address_number" validate:"required"`
}

type UpdateUsuarioRequest struct {
	ID            int64  `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required,min=3,max=100"`
	BirthDate     string `json:"birth_date" validate:"required,datetime=2006-01-02,pastdate"`
	Document      string `json:"document" validate:"required,len=11,numeric"`
	Zip           string `json:"zip" validate:"required,len=8,numeric"`
	AddressNumber int    `json:"address_number" validate:"required"`
}
