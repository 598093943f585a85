package main

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

// addAdmin creates an active admin account.
func (cli *commandLine) addAdmin(email, name, pwd string) error {
	nu := user.NewUser{
		Email:       core.CleanString(email, true /* lower */),
		DisplayName: core.CleanString(name),
		Role:        user.RoleAdmin,
		Password:    pwd,
	}
	if _, err := cli.usrSvc.Create(nu); err != nil {
		return err
	}
	return nil
}
