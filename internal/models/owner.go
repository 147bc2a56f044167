package models

// SetUserID 设置归属用户，由 repository 在创建时调用，强制归属当前登录用户

func (a *Account) SetUserID(id uint)              { a.UserID = id }
func (c *Category) SetUserID(id uint)             { c.UserID = id }
func (t *Transaction) SetUserID(id uint)          { t.UserID = id }
func (r *RecurringTransaction) SetUserID(id uint) { r.UserID = id }
func (b *Budget) SetUserID(id uint)               { b.UserID = id }
func (a *Asset) SetUserID(id uint)                { a.UserID = id }
func (n *Notification) SetUserID(id uint)         { n.UserID = id }
func (b *Backup) SetUserID(id uint)               { b.UserID = id }
