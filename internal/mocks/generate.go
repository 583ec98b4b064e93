package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/apicache --output domain/apicache --outpkg apicachemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name FootballProvider --dir ../usecase --output usecase --outpkg usecasemock --filename football_provider_mock.go
