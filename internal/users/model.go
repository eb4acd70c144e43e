package users

type ListFilter struct {
	Phone string
}
