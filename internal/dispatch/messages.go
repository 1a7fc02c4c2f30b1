package dispatch

import (
	"github.com/sidereusnuntius/jackut/internal/service"
	"github.com/sidereusnuntius/jackut/internal/validate"
)

const (
	msgUserNotFound      = "Usuário não cadastrado."
	msgInvalidSession    = "Sessão inválida."
	msgCommunityNotFound = "Comunidade não existe."
	msgEnemy             = "Função inválida: %s é seu inimigo."
)

// messages maps service and validation errors to what the user sees. Earlier entries win, so the
// validation causes precede the generic invalid argument.
var messages = []struct {
	err     error
	message string
}{
	{validate.ErrLogin, "Login inválido."},
	{validate.ErrPassword, "Senha inválida."},
	{validate.ErrAttribute, "Atributo não preenchido."},
	{validate.ErrCommunityName, "Nome inválido."},
	{validate.ErrDescription, "Descrição inválida."},
	{service.ErrInvalidCredentials, "Login ou senha inválidos."},
	{service.ErrAttributeNotSet, "Atributo não preenchido."},
	{service.ErrAlreadyFriends, "Usuário já está adicionado como amigo."},
	{service.ErrInvitationAlreadySent, "Usuário já está adicionado como amigo, esperando aceitação do convite."},
	{service.ErrAlreadyIdolized, "Usuário já está adicionado como ídolo."},
	{service.ErrAlreadyCrushed, "Usuário já está adicionado como paquera."},
	{service.ErrAlreadyEnemy, "Usuário já está adicionado como inimigo."},
	{service.ErrAlreadyMember, "Usuario já faz parte dessa comunidade."},
	{service.ErrInvalidArgument, "Argumento inválido."},
}
