package domain

type Push struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}
