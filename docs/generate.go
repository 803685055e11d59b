package docs

//go:generate swag init -d .. -g cmd/main.go -o . --outputTypes go
