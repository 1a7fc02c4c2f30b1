package dispatch

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/service"
)

var commands = map[string]command{
	"zerarSistema":    {run: (*Dispatcher).reset},
	"encerrarSistema": {run: (*Dispatcher).shutdown},

	"criarUsuario":       {run: (*Dispatcher).createAccount, duplicate: "Conta com esse nome já existe."},
	"abrirSessao":        {run: (*Dispatcher).openSession},
	"getAtributoUsuario": {run: (*Dispatcher).getAttribute},
	"editarPerfil":       {run: (*Dispatcher).editProfile},
	"removerUsuario":     {run: (*Dispatcher).removeAccount},

	"adicionarAmigo": {
		run:    (*Dispatcher).addFriend,
		target: "amigo",
		self:   "Usuário não pode adicionar a si mesmo como amigo.",
	},
	"ehAmigo":   {run: (*Dispatcher).areFriends},
	"getAmigos": {run: (*Dispatcher).listFriends},

	"enviarRecado": {
		run:    (*Dispatcher).sendNote,
		target: "destinatario",
		self:   "Usuário não pode enviar recado para si mesmo.",
	},
	"lerRecado": {run: (*Dispatcher).readNote, empty: "Não há recados."},

	"criarComunidade": {
		run:       (*Dispatcher).createCommunity,
		duplicate: "Comunidade com esse nome já existe.",
	},
	"getDescricaoComunidade": {run: (*Dispatcher).communityDescription, notFound: msgCommunityNotFound},
	"getDonoComunidade":      {run: (*Dispatcher).communityOwner, notFound: msgCommunityNotFound},
	"getMembrosComunidade":   {run: (*Dispatcher).listMembers, notFound: msgCommunityNotFound},
	"getComunidades":         {run: (*Dispatcher).listCommunities},
	"adicionarComunidade":    {run: (*Dispatcher).joinCommunity, notFound: msgCommunityNotFound},
	"enviarMensagem":         {run: (*Dispatcher).broadcast, notFound: msgCommunityNotFound},
	"lerMensagem":            {run: (*Dispatcher).readBroadcast, empty: "Não há mensagens."},

	"adicionarIdolo": {
		run:    (*Dispatcher).addIdol,
		target: "idolo",
		self:   "Usuário não pode ser fã de si mesmo.",
	},
	"ehFa":   {run: (*Dispatcher).isFan},
	"getFas": {run: (*Dispatcher).listFans},

	"adicionarPaquera": {
		run:    (*Dispatcher).addCrush,
		target: "paquera",
		self:   "Usuário não pode ser paquera de si mesmo.",
	},
	"ehPaquera":   {run: (*Dispatcher).isCrush},
	"getPaqueras": {run: (*Dispatcher).listCrushes},

	"adicionarInimigo": {
		run:    (*Dispatcher).addEnemy,
		target: "inimigo",
		self:   "Usuário não pode ser inimigo de si mesmo.",
	},
}

func (d *Dispatcher) reset(Args) (string, error) {
	if err := d.svc.Reset(); err != nil {
		return "", err
	}
	d.sessions.Clear()
	return "", nil
}

// shutdown ends every session. The network is already persisted after each change.
func (d *Dispatcher) shutdown(Args) (string, error) {
	d.sessions.Clear()
	log.Info().Msg("system closed")
	return "", nil
}

func (d *Dispatcher) createAccount(a Args) (string, error) {
	return "", d.svc.CreateAccount(a["login"], a["senha"], a["nome"])
}

func (d *Dispatcher) openSession(a Args) (string, error) {
	login := a["login"]
	if err := d.svc.Authenticate(login, a["senha"]); err != nil {
		return "", err
	}
	return d.sessions.Open(login), nil
}

func (d *Dispatcher) getAttribute(a Args) (string, error) {
	return d.svc.GetAttribute(a["login"], a["atributo"])
}

func (d *Dispatcher) editProfile(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return "", d.svc.SetAttribute(login, a["atributo"], a["valor"])
}

// removeAccount reports any session problem as an unknown user.
func (d *Dispatcher) removeAccount(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrNotFound, err)
	}
	if err = d.svc.RemoveAccount(login); err != nil {
		return "", err
	}
	d.sessions.Revoke(login)
	return "", nil
}

func (d *Dispatcher) addFriend(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	_, err = d.svc.RequestFriendship(login, a["amigo"])
	return "", err
}

func (d *Dispatcher) areFriends(a Args) (string, error) {
	return renderBool(d.svc.AreFriends(a["login"], a["amigo"])), nil
}

// listFriends renders an unknown login as having no friends.
func (d *Dispatcher) listFriends(a Args) (string, error) {
	friends, err := d.svc.ListFriends(a["login"])
	if errors.Is(err, service.ErrNotFound) {
		return renderList(nil), nil
	}
	if err != nil {
		return "", err
	}
	return renderList(friends), nil
}

func (d *Dispatcher) sendNote(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return "", d.svc.SendNote(login, a["destinatario"], a["recado"])
}

func (d *Dispatcher) readNote(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return d.svc.ReadNote(login)
}

func (d *Dispatcher) createCommunity(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return "", d.svc.CreateCommunity(login, a["nome"], a["descricao"])
}

func (d *Dispatcher) communityDescription(a Args) (string, error) {
	return d.svc.CommunityDescription(a["nome"])
}

func (d *Dispatcher) communityOwner(a Args) (string, error) {
	return d.svc.CommunityOwner(a["nome"])
}

func (d *Dispatcher) listMembers(a Args) (string, error) {
	members, err := d.svc.ListMembers(a["nome"])
	if err != nil {
		return "", err
	}
	return renderList(members), nil
}

func (d *Dispatcher) listCommunities(a Args) (string, error) {
	communities, err := d.svc.ListCommunities(a["login"])
	if err != nil {
		return "", err
	}
	return renderList(communities), nil
}

func (d *Dispatcher) joinCommunity(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return "", d.svc.JoinCommunity(login, a["nome"])
}

func (d *Dispatcher) broadcast(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return "", d.svc.Broadcast(login, a["comunidade"], a["mensagem"])
}

func (d *Dispatcher) readBroadcast(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return d.svc.ReadBroadcast(login)
}

func (d *Dispatcher) addIdol(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return "", d.svc.AddIdol(login, a["idolo"])
}

func (d *Dispatcher) isFan(a Args) (string, error) {
	return renderBool(d.svc.IsFan(a["login"], a["idolo"])), nil
}

func (d *Dispatcher) listFans(a Args) (string, error) {
	fans, err := d.svc.ListFans(a["login"])
	if err != nil {
		return "", err
	}
	return renderList(fans), nil
}

func (d *Dispatcher) addCrush(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return "", d.svc.AddCrush(login, a["paquera"])
}

func (d *Dispatcher) isCrush(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return renderBool(d.svc.IsCrush(login, a["paquera"])), nil
}

func (d *Dispatcher) listCrushes(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	crushes, err := d.svc.ListCrushes(login)
	if err != nil {
		return "", err
	}
	return renderList(crushes), nil
}

func (d *Dispatcher) addEnemy(a Args) (string, error) {
	login, err := d.login(a)
	if err != nil {
		return "", err
	}
	return "", d.svc.AddEnemy(login, a["inimigo"])
}
