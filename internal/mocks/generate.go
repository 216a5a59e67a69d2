package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Dispatcher --dir ../domain/notification --output domain/notification --outpkg notificationmock --filename dispatcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Sink --dir ../domain/notification --output domain/notification --outpkg notificationmock --filename sink_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/badge --output domain/badge --outpkg badgemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/reliability --output domain/reliability --outpkg reliabilitymock --filename repository_mock.go
