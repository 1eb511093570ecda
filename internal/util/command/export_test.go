package command

var ResolveKeystorePasswordFromFD = resolveKeystorePassword
