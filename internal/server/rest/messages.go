package rest

// Response messages are part of the public API and kept verbatim.
const (
	msgTokenMissing = "Token não fornecido"
	msgTokenInvalid = "Token inválido"
	msgServerError  = "Erro no servidor"

	msgRegistered        = "Cadastrado com sucesso"
	msgEmailTaken        = "Email já cadastrado"
	msgRegisterError     = "Erro no cadastro"
	msgLoggedIn          = "Logado com sucesso"
	msgWrongPassword     = "Senha incorreta"
	msgUserNotFound      = "Usuário não encontrado"
	msgLoginError        = "Erro no login"
	msgLoggedOut         = "Sessão encerrada"
	msgCompanyRegistered = "Empresa registrada com sucesso!"
	msgCompanyUserAbsent = "Usuário não encontrado."
	msgCNPJTaken         = "CNPJ já cadastrado."
	msgCompanyError      = "Erro ao registrar empresa."
	msgInvalidBody       = "Dados inválidos."
	msgListCompanies     = "Erro ao buscar empresas."
	msgListCategories    = "Erro ao buscar ODS."
)
