package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Companies     CompanyRepository
	Departments   DepartmentRepository
	Users         UserRepository
	Software      SoftwareRepository
	Contracts     ContractRepository
	Reviews       ReviewRepository
	Usage         UsageRepository
	Requests      SoftwareRequestRepository
	Votes         VoteRepository
	Notifications NotificationRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
